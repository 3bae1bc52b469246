package domain

// Turn sequencing: stepping the acting seat forward or backward through the
// rotation, skipping seats that can no longer act. Callers must not ask for
// the next seat when fewer than two eligible seats remain; that condition
// closes betting instead of advancing the turn.

// EligibleSeats counts seats whose status keeps them in the betting
// rotation.
func (r *Room) EligibleSeats() int {
	count := 0
	for _, p := range r.Seats {
		if p.Round != nil && p.Round.Status.Eligible() {
			count++
		}
	}
	return count
}

// ShowdownSeats counts seats still competing for the pot (all-in included).
func (r *Room) ShowdownSeats() int {
	count := 0
	for _, p := range r.Seats {
		if p.Round != nil && p.Round.Status.InShowdown() {
			count++
		}
	}
	return count
}

// NextEligible returns the first seat after from (wrapping) whose status is
// not FOLD, BUST or ALLIN. Returns from itself when no other seat is
// eligible.
func (r *Room) NextEligible(from int) int {
	return r.stepEligible(from, 1)
}

// PrevEligible returns the first eligible seat before from (wrapping).
func (r *Room) PrevEligible(from int) int {
	return r.stepEligible(from, -1)
}

func (r *Room) stepEligible(from, step int) int {
	n := len(r.Seats)
	if n == 0 {
		return -1
	}

	seat := from
	for i := 0; i < n; i++ {
		seat = ((seat+step)%n + n) % n
		if ps := r.Seats[seat].Round; ps != nil && ps.Status.Eligible() {
			return seat
		}
	}
	return from
}
