package types

import (
	"github.com/moriyoshi/addrsplit/internal/rfc5322/address"
)

// Entry is a single parsed address.
// "Barry Gibbs <bg@example.com>" is represented as
// Entry{Name: "Barry Gibbs", Address: "bg@example.com"}.
type Entry struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// String formats the entry as an RFC 5322 mailbox.
func (e Entry) String() string {
	return address.Render(e.Name, e.Address)
}

// Result is the ordered list of valid entries found in a header value.
type Result []Entry

// Candidate is a group extracted by a Splitter before invalid ones are
// filtered out.
type Candidate struct {
	Entry
	Raw string // source text of the group
	Err error  // nil when Entry holds a valid address
}

func (c Candidate) Valid() bool {
	return c.Err == nil
}
