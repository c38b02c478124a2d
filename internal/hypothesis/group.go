package hypothesis

// primaryGroup is one instantiated taxonomy bucket with the indexes of the
// drafts assigned to it, in input order.
type primaryGroup struct {
	CategoryIndex int
	DraftIndexes  []int
}

// groupDrafts assigns every classified draft to exactly one taxonomy
// category, producing a strict partition by construction: each draft is
// appended to a single bucket and empty buckets are omitted. Groups come out
// in taxonomy declaration order.
func groupDrafts(drafts []classificationDraft) []primaryGroup {
	buckets := make([][]int, len(taxonomy))
	for idx, draft := range drafts {
		category := resolveCategory(draft.ThemeLabel)
		buckets[category] = append(buckets[category], idx)
	}

	groups := make([]primaryGroup, 0, len(taxonomy))
	for categoryIdx, members := range buckets {
		if len(members) == 0 {
			continue
		}
		groups = append(groups, primaryGroup{CategoryIndex: categoryIdx, DraftIndexes: members})
	}
	return groups
}
