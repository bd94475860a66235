package mailmenu

import "time"

// selectNew classifies a freshly parsed batch against an account's
// high-water mark. A message is new iff its timestamp is strictly after
// latestSeen. newest is the maximum timestamp in the batch — the feed
// usually returns newest-first, but that is only a hint and the scan does
// not rely on it. An empty batch returns the mark unchanged.
func selectNew(latestSeen time.Time, msgs []Message) (fresh []Message, newest time.Time) {
	newest = latestSeen
	for _, m := range msgs {
		if m.Timestamp.After(newest) {
			newest = m.Timestamp
		}
		if m.Timestamp.After(latestSeen) {
			fresh = append(fresh, m)
		}
	}
	return fresh, newest
}
