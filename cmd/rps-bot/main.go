package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"rps-arena/internal/config"
	"rps-arena/internal/game"
	"rps-arena/internal/logging"
)

// A throwaway opponent: registers itself, joins the first open match it can
// find (or creates one), and plays random choices until the match ends.

type client struct {
	base   string
	apiKey string
	http   *http.Client
}

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(logCfg); err != nil {
		panic(err)
	}
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}

	c := &client{base: cfg.ServerURL, apiKey: cfg.APIKey, http: &http.Client{Timeout: 10 * time.Second}}
	address := ""
	if c.apiKey == "" {
		var reg struct {
			Address string `json:"address"`
			APIKey  string `json:"api_key"`
		}
		name := fmt.Sprintf("%s-%d", cfg.PlayerName, time.Now().UnixNano()%100000)
		if err := c.post("/api/players/register", map[string]any{"name": name}, &reg); err != nil {
			log.Fatal().Err(err).Msg("register failed")
		}
		c.apiKey = reg.APIKey
		address = reg.Address
		log.Info().Str("address", address).Str("name", name).Msg("registered")
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	for {
		matchID, err := c.findOrCreateMatch(cfg, address)
		if err != nil {
			log.Error().Err(err).Msg("match setup failed")
			time.Sleep(2 * time.Second)
			continue
		}
		if err := c.playMatch(rnd, matchID); err != nil {
			log.Error().Err(err).Uint64("match_id", matchID).Msg("match aborted")
		}
		time.Sleep(time.Second)
	}
}

func (c *client) findOrCreateMatch(cfg config.BotConfig, address string) (uint64, error) {
	var open struct {
		Items []struct {
			ID        uint64 `json:"id"`
			Player1   string `json:"player1"`
			BetAmount int64  `json:"bet_amount"`
		} `json:"items"`
	}
	if err := c.get("/api/public/matches?limit=20", &open); err != nil {
		return 0, err
	}
	for _, m := range open.Items {
		if m.Player1 == address {
			continue
		}
		var resp struct {
			OK bool `json:"ok"`
		}
		err := c.post(fmt.Sprintf("/api/matches/%d/join", m.ID), map[string]any{"bet_amount": m.BetAmount}, &resp)
		if err == nil {
			log.Info().Uint64("match_id", m.ID).Msg("joined match")
			return m.ID, nil
		}
	}
	var created struct {
		MatchID uint64 `json:"match_id"`
	}
	err := c.post("/api/matches", map[string]any{"bet_amount": cfg.Bet, "game_mode": cfg.GameMode}, &created)
	if err != nil {
		return 0, err
	}
	log.Info().Uint64("match_id", created.MatchID).Msg("created match, waiting for opponent")
	return created.MatchID, nil
}

func (c *client) playMatch(rnd *rand.Rand, matchID uint64) error {
	var salt game.Salt
	var choice game.Choice
	committed := false
	revealed := false
	lastRound := uint8(0)

	for {
		var m struct {
			State        string `json:"state"`
			CurrentRound uint8  `json:"current_round"`
		}
		if err := c.get(fmt.Sprintf("/api/public/matches/%d", matchID), &m); err != nil {
			return err
		}
		if m.CurrentRound != lastRound {
			lastRound = m.CurrentRound
			committed, revealed = false, false
		}

		switch m.State {
		case "completed", "expired", "cancelled":
			log.Info().Uint64("match_id", matchID).Str("state", m.State).Msg("match over")
			return nil
		case "both_joined":
			if committed {
				// Either the opponent is still thinking, or a tie reset the
				// round. Probe the round state to tell the two apart.
				var rs struct {
					P1Committed bool `json:"p1_committed"`
					P2Committed bool `json:"p2_committed"`
				}
				if err := c.get(fmt.Sprintf("/api/public/matches/%d/rounds/%d", matchID, m.CurrentRound), &rs); err != nil {
					return err
				}
				if rs.P1Committed || rs.P2Committed {
					break
				}
				committed, revealed = false, false
			}
			choice = game.Choice(1 + rnd.Intn(3))
			s, err := game.NewSalt()
			if err != nil {
				return err
			}
			salt = s
			commit := game.MakeCommitment(choice, salt)
			var resp struct {
				OK bool `json:"ok"`
			}
			if err := c.post(fmt.Sprintf("/api/matches/%d/commit", matchID),
				map[string]any{"commitment": commit.String()}, &resp); err != nil {
				return err
			}
			committed = true
			log.Debug().Uint64("match_id", matchID).Str("choice", choice.String()).Msg("committed")
		case "both_committed", "p1_revealed", "p2_revealed":
			if !revealed {
				var resp struct {
					OK bool `json:"ok"`
				}
				err := c.post(fmt.Sprintf("/api/matches/%d/reveal", matchID),
					map[string]any{"choice": choice.String(), "salt": salt.String()}, &resp)
				if err != nil {
					return err
				}
				revealed = true
				log.Debug().Uint64("match_id", matchID).Msg("revealed")
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func (c *client) get(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *client) post(path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, c.base+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *client) do(req *http.Request, out any) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("%s %s: %d %s", req.Method, req.URL.Path, resp.StatusCode, e.Error)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
