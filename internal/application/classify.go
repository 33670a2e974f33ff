package application

import "github.com/ericfisherdev/prboard/internal/domain/model"

// classifyStatus maps (state, draft, merged) to a PRStatus.
// The draft flag only matters for open PRs and merged only for closed ones.
func classifyStatus(state string, draft, merged bool) model.PRStatus {
	switch {
	case state == "open" && draft:
		return model.PRStatusDraft
	case state == "open":
		return model.PRStatusOpen
	case state == "closed" && merged:
		return model.PRStatusMerged
	case state == "closed":
		return model.PRStatusClosedUnmerged
	default:
		return model.PRStatusUnknown
	}
}

// classifyMergeability maps GitHub's mergeable_state indicator to conflict and
// staleness buckets. An empty indicator is treated as "unknown".
func classifyMergeability(raw string) model.Mergeability {
	if raw == "" {
		raw = "unknown"
	}

	m := model.Mergeability{Raw: raw}
	switch raw {
	case "clean":
		m.Conflict, m.Staleness = model.ConflictNone, model.StalenessCurrent
	case "dirty":
		m.Conflict, m.Staleness = model.ConflictPresent, model.StalenessCurrent
	case "behind":
		m.Conflict, m.Staleness = model.ConflictNone, model.StalenessOutOfDate
	case "blocked":
		m.Conflict, m.Staleness = model.ConflictBlocked, model.StalenessCurrent
	default:
		m.Conflict, m.Staleness = model.ConflictUnknown, model.StalenessUnknown
	}
	return m
}

// checkOutcome buckets a check run conclusion. Anything other than success or
// failure, including a run still in progress, counts as pending.
func checkOutcome(conclusion string) model.CheckOutcome {
	switch conclusion {
	case "success":
		return model.CheckOutcomePass
	case "failure":
		return model.CheckOutcomeFail
	default:
		return model.CheckOutcomePending
	}
}

// checkLines converts check runs to display lines, preserving their order.
func checkLines(runs []model.CheckRun) []model.CheckLine {
	lines := make([]model.CheckLine, 0, len(runs))
	for _, run := range runs {
		lines = append(lines, model.CheckLine{Name: run.Name, Outcome: checkOutcome(run.Conclusion)})
	}
	return lines
}

// tallyReviews counts approvals and change requests using each reviewer's
// final state. Reviews are folded in the order given, so a later entry for
// the same login overwrites an earlier one; this relies on the API listing
// reviews oldest first. Reviews without a login are skipped.
func tallyReviews(reviews []model.Review) (approvals, changeRequests int) {
	finalState := make(map[string]model.ReviewState, len(reviews))
	for _, r := range reviews {
		if r.ReviewerLogin == "" {
			continue
		}
		finalState[r.ReviewerLogin] = r.State
	}

	for _, state := range finalState {
		switch state {
		case model.ReviewStateApproved:
			approvals++
		case model.ReviewStateChangesRequested:
			changeRequests++
		}
	}
	return approvals, changeRequests
}
