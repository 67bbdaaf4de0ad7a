// seed_events.go is a standalone script that posts synthetic simulated
// events to the jetweight API for local testing.
//
// Usage:
//
//	go run scripts/seed_events.go -api http://localhost:8700 -n 200 -seed 7
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
)

type jetInput struct {
	Pt     float64 `json:"pt"`
	Flavor string  `json:"flavor"`
	Tagged bool    `json:"tagged"`
}

type computeRequest struct {
	RunNumber int        `json:"run_number"`
	Source    string     `json:"source"`
	MuonEta   float64    `json:"muon_eta"`
	Jets      []jetInput `json:"jets"`
	Persist   bool       `json:"persist"`
}

// Rough flavor mix of a ttbar-like sample and per-flavor tag rates at a
// tight working point.
var flavorMix = []struct {
	flavor  string
	prob    float64
	tagRate float64
}{
	{"b", 0.20, 0.55},
	{"c", 0.10, 0.05},
	{"light", 0.70, 0.002},
}

func randomJet(rng *rand.Rand) jetInput {
	r := rng.Float64()
	acc := 0.0
	flavor := flavorMix[len(flavorMix)-1]
	for _, f := range flavorMix {
		acc += f.prob
		if r < acc {
			flavor = f
			break
		}
	}
	// Falling pt spectrum between 20 and ~400 GeV.
	pt := 20 + 380*rng.Float64()*rng.Float64()
	return jetInput{
		Pt:     pt,
		Flavor: flavor.flavor,
		Tagged: rng.Float64() < flavor.tagRate,
	}
}

func main() {
	apiURL := flag.String("api", "http://localhost:8700", "jetweight API base URL")
	n := flag.Int("n", 100, "number of events to seed")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	posted := 0

	for i := 0; i < *n; i++ {
		njets := 2 + rng.Intn(5)
		req := computeRequest{
			RunNumber: 160000 + rng.Intn(20000),
			Source:    "seed-script",
			MuonEta:   -2.4 + 4.8*rng.Float64(),
			Persist:   true,
		}
		for j := 0; j < njets; j++ {
			req.Jets = append(req.Jets, randomJet(rng))
		}

		body, err := json.Marshal(req)
		if err != nil {
			log.Fatalf("marshal request: %v", err)
		}
		resp, err := http.Post(*apiURL+"/api/v1/weights", "application/json", bytes.NewReader(body))
		if err != nil {
			log.Fatalf("post event: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			log.Printf("event %d rejected with status %d", i, resp.StatusCode)
		} else {
			posted++
		}
		resp.Body.Close()
	}

	fmt.Printf("posted %d/%d events\n", posted, *n)
}
