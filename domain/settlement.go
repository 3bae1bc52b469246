package domain

import (
	"sort"
	"time"

	"github.com/thoas/go-funk"

	"github.com/lvaneyck/holdem/domain/events"
	"github.com/lvaneyck/holdem/domain/hands"
)

type contender struct {
	seat int
	p    *Player
	desc hands.Descriptor
}

// settlePot distributes the pot among showdown winners, handling multi-tier
// all-in side pots. Each winner's claim on every other seat is capped at the
// winner's own round total, so a short all-in can only win back what each
// contributor could have matched; whatever a tier cannot claim flows to the
// next-best hands. Folded and busted seats contribute but cannot win.
func (r *Room) settlePot() {
	g := r.Game

	var ranked []contender
	for i, p := range r.Seats {
		ps := p.Round
		if ps == nil || !ps.Status.InShowdown() {
			continue
		}
		desc, err := hands.Rank(ps.HoleCards, g.Board)
		if err != nil {
			// Only reachable with corrupted cards; the seat keeps its chips
			// claim but cannot win.
			continue
		}
		ps.Hand = &desc
		ranked = append(ranked, contender{seat: i, p: p, desc: desc})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].desc.Score > ranked[j].desc.Score
	})

	// Chips each seat still holds a claim on, folded seats included.
	claims := make([]int, len(r.Seats))
	for i, p := range r.Seats {
		if p.Round != nil {
			claims[i] = p.Round.TotalBet
		}
	}

	for idx := 0; g.Pot > 0 && idx < len(ranked); {
		tier := []contender{ranked[idx]}
		for idx+1 < len(ranked) && ranked[idx+1].desc.Ties(ranked[idx].desc) {
			idx++
			tier = append(tier, ranked[idx])
		}
		idx++

		r.awardTier(tier, claims)
	}

	// A non-zero residual here is an invariant violation; the cap layering
	// above is meant to make it unreachable for any legal action sequence.

	g.Finished = true

	var winners []string
	for _, p := range r.Seats {
		if p.Round != nil && p.Round.WinAmount > 0 {
			winners = append(winners, p.ID)
		}
	}

	r.emitEvent(events.RoundEnded{
		RoomID:  r.ID,
		Round:   g.Round,
		Winners: winners,
		At:      time.Now(),
	})
}

// awardTier pays one tier of co-winners. The tier's distinct caps split the
// claims into layers; each layer is claimed by the winners whose own total
// reaches it and divided evenly, odd chips going to the earliest seat.
func (r *Room) awardTier(tier []contender, claims []int) {
	g := r.Game

	caps := make([]int, 0, len(tier))
	for _, t := range tier {
		caps = append(caps, t.p.Round.TotalBet)
	}
	caps = funk.UniqInt(caps)
	sort.Ints(caps)

	won := make(map[int]int, len(tier))

	prev := 0
	for _, level := range caps {
		var takers []contender
		for _, t := range tier {
			if t.p.Round.TotalBet >= level {
				takers = append(takers, t)
			}
		}
		if len(takers) == 0 {
			break
		}

		layer := 0
		for s := range claims {
			claim := min(claims[s], level) - min(claims[s], prev)
			claims[s] -= claim
			layer += claim
		}

		share := layer / len(takers)
		remainder := layer % len(takers)
		for k, t := range takers {
			amount := share
			if k == 0 {
				amount += remainder
			}
			won[t.seat] += amount
		}

		prev = level
	}

	for _, t := range tier {
		amount := won[t.seat]
		if amount == 0 {
			continue
		}
		t.p.Balance += amount
		t.p.Round.WinAmount += amount
		g.Pot -= amount

		r.emitEvent(events.PotAwarded{
			RoomID:    r.ID,
			PlayerID:  t.p.ID,
			Amount:    amount,
			HandLabel: t.desc.Label,
			At:        time.Now(),
		})
	}
}
