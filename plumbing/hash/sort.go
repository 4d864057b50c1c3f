package hash

import "sort"

// Sort sorts a slice of ObjectIDs in increasing lexicographic order.
func Sort(a []ObjectID) {
	sort.Sort(ObjectIDs(a))
}

// ObjectIDs attaches the methods of sort.Interface to []ObjectID.
type ObjectIDs []ObjectID

func (p ObjectIDs) Len() int           { return len(p) }
func (p ObjectIDs) Less(i, j int) bool { return p[i].Compare(p[j][:]) < 0 }
func (p ObjectIDs) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
