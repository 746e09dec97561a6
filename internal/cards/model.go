package cards

import (
	"encoding/json"
	"fmt"
)

// Card is one combat page as described by its data file.
type Card struct {
	Name     string `json:"name"`
	Cost     Cost   `json:"cost"`
	Rarity   string `json:"rarity"`
	Type     string `json:"type"`
	Grit     bool   `json:"grit"`
	Art      string `json:"art,omitempty"`
	Preamble string `json:"preamble,omitempty"`
	Dice     []Die  `json:"dice"`
	QR       *QR    `json:"qr,omitempty"`

	// Source is the data file path, empty for cards parsed from memory.
	Source string `json:"-"`
}

// Die is one dice row in the description box.
type Die struct {
	Type   string `json:"type"`
	Range  string `json:"range"`
	Effect string `json:"effect,omitempty"`
}

// QR stamps a QR code onto the card.
type QR struct {
	Text string `json:"text"`
	Size int    `json:"size"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// Cost is printed as-is, so both numbers and strings like "X" are accepted.
type Cost string

func (c *Cost) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*c = Cost(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("cost must be a number or string: %s", b)
	}
	*c = Cost(s)
	return nil
}
