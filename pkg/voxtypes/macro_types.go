package voxtypes

import "time"

// Macro is a named, saved sequence of raw command strings recorded for later
// replay. Names are case-insensitive keys; replaying joins the commands with
// " and " and hands the result to the chainer.
type Macro struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Commands   []string  `json:"commands"`
	CreatedAt  time.Time `json:"createdAt"`
	UsageCount int       `json:"usageCount"`
}
