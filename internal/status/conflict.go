package status

// MergeableStateDirty is the mergeable_state reported for a pull request
// with merge conflicts.
const MergeableStateDirty = "dirty"

// MergeConflict reports whether a pull request has a merge conflict.
//
// Only an explicit mergeable=false or a "dirty" mergeable_state count. A
// host that is still computing mergeability (mergeable absent) yields
// false even if a conflict is about to be found.
func MergeConflict(mergeable *bool, mergeableState string) bool {
	if mergeable != nil && !*mergeable {
		return true
	}
	return mergeableState == MergeableStateDirty
}
