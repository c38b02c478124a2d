package hypothesis

// validateDistribution recomputes every primary signal's source distribution
// from the supporting set and cross-checks it against the stored counts and
// the global totals. A correct grouper cannot produce a mismatch, so any
// failure here is an internal defect and comes back as *ValidationError.
func validateDistribution(primaries []PrimarySignal, supporting []SupportingSignal) error {
	familyByID := make(map[string]string, len(supporting))
	var global SourceDistribution
	for _, signal := range supporting {
		family := foldSource(signal.SourceType)
		familyByID[signal.ID] = family
		bump(&global, family)
	}

	var summed SourceDistribution
	for _, primary := range primaries {
		var recomputed SourceDistribution
		for _, id := range primary.SupportingSignalIDs {
			family, ok := familyByID[id]
			if !ok {
				return validationErrorf("distribution", "%s references unknown supporting signal %s", primary.ID, id)
			}
			bump(&recomputed, family)
		}
		if recomputed != primary.SourceDistribution {
			return validationErrorf("distribution", "%s stored %+v, recomputed %+v", primary.ID, primary.SourceDistribution, recomputed)
		}
		if recomputed.Total() != len(primary.SupportingSignalIDs) {
			return validationErrorf("distribution", "%s distribution sums to %d for %d members", primary.ID, recomputed.Total(), len(primary.SupportingSignalIDs))
		}
		if recomputed.Total() == 0 {
			return validationErrorf("distribution", "%s has an empty distribution", primary.ID)
		}
		summed.News += recomputed.News
		summed.Social += recomputed.Social
		summed.Financial += recomputed.Financial
	}

	if summed != global {
		return validationErrorf("distribution", "per-primary totals %+v do not reproduce global counts %+v", summed, global)
	}
	return nil
}

// verifyAnalysis is the final fail-closed gate: it re-checks every structural
// invariant of the assembled result before it is returned.
func verifyAnalysis(analysis *HypothesisAnalysis, inputCount int) error {
	if len(analysis.SupportingSignals) != inputCount {
		return validationErrorf("signal-count", "%d supporting signals for %d raw inputs", len(analysis.SupportingSignals), inputCount)
	}

	known := make(map[string]struct{}, len(analysis.SupportingSignals))
	for _, signal := range analysis.SupportingSignals {
		if signal.RiskScore < 0 || signal.RiskScore > 100 {
			return validationErrorf("score-range", "supporting %s has score %d", signal.ID, signal.RiskScore)
		}
		known[signal.ID] = struct{}{}
	}

	assigned := make(map[string]string, len(known))
	for _, primary := range analysis.PrimarySignals {
		if len(primary.SupportingSignalIDs) == 0 {
			return validationErrorf("partition", "%s has no members", primary.ID)
		}
		if primary.RiskScore < 0 || primary.RiskScore > 100 {
			return validationErrorf("score-range", "primary %s has score %d", primary.ID, primary.RiskScore)
		}
		if levelForScore(primary.RiskScore) != primary.RiskLevel {
			return validationErrorf("level-threshold", "%s level %s does not match score %d", primary.ID, primary.RiskLevel, primary.RiskScore)
		}
		for _, id := range primary.SupportingSignalIDs {
			if _, ok := known[id]; !ok {
				return validationErrorf("partition", "%s references unknown id %s", primary.ID, id)
			}
			if owner, dup := assigned[id]; dup {
				return validationErrorf("partition", "id %s claimed by both %s and %s", id, owner, primary.ID)
			}
			assigned[id] = primary.ID
		}
	}
	if len(assigned) != len(known) {
		return validationErrorf("partition", "%d of %d supporting signals assigned to a primary", len(assigned), len(known))
	}

	overall := analysis.OverallRiskScore
	if overall.Score < 0 || overall.Score > 100 {
		return validationErrorf("score-range", "overall score %d", overall.Score)
	}
	if len(analysis.PrimarySignals) > 0 && levelForScore(overall.Score) != overall.Level {
		return validationErrorf("level-threshold", "overall level %s does not match score %d", overall.Level, overall.Score)
	}

	return validateDistribution(analysis.PrimarySignals, analysis.SupportingSignals)
}

func bump(d *SourceDistribution, family string) {
	switch family {
	case FamilySocial:
		d.Social++
	case FamilyFinancial:
		d.Financial++
	default:
		d.News++
	}
}
