package layout

import "encoding/json"

// TabDiff is a tab-granularity structural comparison between two documents.
// Widgets are not diffed individually — a tab whose serialized content
// changed in any way is reported once under TabsModified.
type TabDiff struct {
	Version      bool  `json:"version"`
	TabsAdded    []Tab `json:"tabs_added"`
	TabsRemoved  []Tab `json:"tabs_removed"`
	TabsModified []Tab `json:"tabs_modified"`
}

// Empty reports whether the diff records no changes.
func (d *TabDiff) Empty() bool {
	return !d.Version && len(d.TabsAdded) == 0 && len(d.TabsRemoved) == 0 && len(d.TabsModified) == 0
}

// Diff compares two documents tab-by-tab keyed on tab id.
func Diff(oldDoc, newDoc *Document) *TabDiff {
	d := &TabDiff{
		Version:      oldDoc.Version != newDoc.Version,
		TabsAdded:    []Tab{},
		TabsRemoved:  []Tab{},
		TabsModified: []Tab{},
	}

	oldByID := make(map[string]Tab, len(oldDoc.Tabs))
	for _, t := range oldDoc.Tabs {
		oldByID[t.ID] = t
	}
	newByID := make(map[string]Tab, len(newDoc.Tabs))
	for _, t := range newDoc.Tabs {
		newByID[t.ID] = t
	}

	for _, t := range newDoc.Tabs {
		prev, ok := oldByID[t.ID]
		if !ok {
			d.TabsAdded = append(d.TabsAdded, t)
			continue
		}
		if !sameTab(prev, t) {
			d.TabsModified = append(d.TabsModified, t)
		}
	}
	for _, t := range oldDoc.Tabs {
		if _, ok := newByID[t.ID]; !ok {
			d.TabsRemoved = append(d.TabsRemoved, t)
		}
	}

	return d
}

// sameTab compares serialized tab content. json.Marshal emits map keys in
// sorted order, so the comparison is stable.
func sameTab(a, b Tab) bool {
	ab, errA := json.Marshal(a)
	bb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(ab) == string(bb)
}
