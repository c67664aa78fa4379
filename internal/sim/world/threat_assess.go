package world

import "math"

// Assessment is the per-tick threat picture for one agent.
type Assessment struct {
	Target     *Agent  // best engagement target, nil when none qualifies
	TargetDist float64 // exact distance to Target

	// Crowd counts inside the escape radius and the tighter backward
	// sub-radius, used by the escape/retreat branches.
	EnemiesNear     int
	EnemiesClose    int
	FriendliesNear  int
	FriendliesClose int

	// RetreatHeading is the atan2 of the accumulated enemy heading vectors;
	// fleeing moves along it. Valid only when HasRetreat.
	RetreatHeading float64
	HasRetreat     bool
}

// AssessThreat picks the single best engagement target for a and counts the
// nearby crowd. Candidates come from the threat cache (Manhattan pre-filter),
// are re-resolved to live agents before use, and the closest qualifying one
// wins with a strict < comparison, so ties go to the first entry in snapshot
// order.
func (s *Sim) AssessThreat(a *Agent) Assessment {
	var out Assessment
	out.TargetDist = math.MaxFloat64

	det := s.tun.Detection
	cmb := s.tun.Combat
	escSq := cmb.EscapeRadius * cmb.EscapeRadius
	closeSq := cmb.BackwardRadius * cmb.BackwardRadius

	var headSumX, headSumY float64

	s.cache.Scan(a.Pos, det.ScanRadius, func(e *CacheEntry) {
		if e.ID == a.ID || e.Dead {
			return
		}
		cand := s.cache.Resolve(e.ID)
		if cand == nil || !cand.Alive() {
			// Stale entry: the agent was removed this tick. Skip.
			return
		}
		if manhattan2D(a.Pos, cand.Pos) > det.ScanRadius {
			return
		}

		enemy := s.isEnemyOf(a, cand)
		friendly := !enemy && cand.Role == a.Role && cand.Clan == a.Clan

		dSq := distSq2D(a.Pos, cand.Pos)
		if enemy {
			if dSq <= escSq {
				out.EnemiesNear++
				headSumX += math.Cos(cand.Heading)
				headSumY += math.Sin(cand.Heading)
			}
			if dSq <= closeSq {
				out.EnemiesClose++
			}
		} else if friendly {
			if dSq <= escSq {
				out.FriendliesNear++
			}
			if dSq <= closeSq {
				out.FriendliesClose++
			}
		}

		if !enemy {
			return
		}
		if !s.qualifies(a, cand) {
			return
		}
		d := math.Sqrt(dSq)
		if d < out.TargetDist {
			out.Target = cand
			out.TargetDist = d
		}
	})

	if headSumX != 0 || headSumY != 0 {
		out.RetreatHeading = math.Atan2(headSumY, headSumX)
		out.HasRetreat = true
	}
	if out.Target == nil {
		out.TargetDist = 0
	}
	return out
}

// isEnemyOf is the cheap faction test, applied before any geometry work.
func (s *Sim) isEnemyOf(a, cand *Agent) bool {
	switch cand.Role {
	case RolePlayer:
		return a.HostileToPlayers
	case RoleBandit, RoleRival:
		if cand.Clan == a.Clan && cand.Role == a.Role {
			return false
		}
		return cand.Hostile || cand.Clan != a.Clan
	default:
		return false
	}
}

// qualifies applies the exact visibility rules for engagement targets.
func (s *Sim) qualifies(a, cand *Agent) bool {
	switch cand.Role {
	case RolePlayer:
		if !a.HostileToPlayers {
			return false
		}
		if facingDot(a.Pos, a.Heading, cand.Pos) <= 0 {
			// Behind the agent.
			return false
		}
		if !s.geo.ClearSight(a.Pos, cand.Pos) {
			return false
		}
		return s.DetectionScore(a, cand) > s.tun.Detection.Threshold
	default:
		if s.geo.LightAt(cand.Pos.Grid()) <= s.tun.Detection.RivalLightMin {
			return false
		}
		return s.geo.ClearSight(a.Pos, cand.Pos)
	}
}

// DetectionScore computes the noticeability of a human target: ambient light
// at the target, stance modifiers, and a close-range bonus that grows
// linearly as the distance shrinks below the close-range cutoff.
func (s *Sim) DetectionScore(a, target *Agent) float64 {
	det := s.tun.Detection

	score := s.geo.LightAt(target.Pos.Grid())
	if target.Running {
		score += det.RunBonus
	}
	if target.Sprinting {
		score += det.SprintBonus
	}
	if target.Sneaking {
		score -= det.SneakPenalty
		if s.geo.NearCuttableVegetation(target.Pos.Grid()) {
			score -= det.SneakVegetationBonus
		}
	}
	if d := dist2D(a.Pos, target.Pos); d < det.CloseMaxDist {
		score += det.CloseBase - det.CloseSlope*d
	}
	return score
}
