package imap

import (
	"fmt"
	"strconv"
	"strings"
)

// NumRange is one comma-separated element of a sequence or UID set: a
// single number when Start == Stop, or an inclusive range. Stop == 0
// stands for the wildcard "*" (the highest number in the mailbox).
type NumRange struct {
	Start uint32
	Stop  uint32
}

// Contains reports whether num falls inside the range.
func (r NumRange) Contains(num uint32) bool {
	if r.Stop == 0 {
		return num >= r.Start
	}
	lo, hi := r.Start, r.Stop
	if lo > hi {
		lo, hi = hi, lo
	}
	return num >= lo && num <= hi
}

// String renders the range the way it appears on the wire.
func (r NumRange) String() string {
	if r.Start == r.Stop {
		return strconv.FormatUint(uint64(r.Start), 10)
	}
	stop := "*"
	if r.Stop != 0 {
		stop = strconv.FormatUint(uint64(r.Stop), 10)
	}
	return strconv.FormatUint(uint64(r.Start), 10) + ":" + stop
}

// NumSet is a sequence set or UID set: an ordered list of NumRange.
type NumSet struct {
	Ranges []NumRange
}

// ParseNumSet parses a set string like "1,2:5,10:*".
func ParseNumSet(s string) (*NumSet, error) {
	if s == "" {
		return nil, fmt.Errorf("imap: empty number set")
	}
	var ranges []NumRange
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("imap: empty range in number set %q", s)
		}
		if idx := strings.IndexByte(part, ':'); idx >= 0 {
			start, err := parseSetNum(part[:idx])
			if err != nil {
				return nil, err
			}
			stop, err := parseSetNum(part[idx+1:])
			if err != nil {
				return nil, err
			}
			ranges = append(ranges, NumRange{Start: start, Stop: stop})
		} else {
			n, err := parseSetNum(part)
			if err != nil {
				return nil, err
			}
			ranges = append(ranges, NumRange{Start: n, Stop: n})
		}
	}
	return &NumSet{Ranges: ranges}, nil
}

func parseSetNum(s string) (uint32, error) {
	if s == "*" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("imap: invalid number %q: %w", s, err)
	}
	return uint32(n), nil
}

// String renders the set the way it appears on the wire.
func (s *NumSet) String() string {
	parts := make([]string, len(s.Ranges))
	for i, r := range s.Ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}

// Dynamic reports whether the set contains a "*" bound.
func (s *NumSet) Dynamic() bool {
	for _, r := range s.Ranges {
		if r.Start == 0 || r.Stop == 0 {
			return true
		}
	}
	return false
}

// Contains reports whether num is a member of the set.
func (s *NumSet) Contains(num uint32) bool {
	for _, r := range s.Ranges {
		if r.Contains(num) {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the set has no ranges.
func (s *NumSet) IsEmpty() bool {
	return len(s.Ranges) == 0
}

// SeqSetNum builds a single-number NumSet.
func SeqSetNum(nums ...uint32) *NumSet {
	ns := &NumSet{}
	for _, n := range nums {
		ns.Ranges = append(ns.Ranges, NumRange{Start: n, Stop: n})
	}
	return ns
}

// UIDSetNum builds a single-UID NumSet.
func UIDSetNum(uids ...UID) *NumSet {
	ns := &NumSet{}
	for _, u := range uids {
		ns.Ranges = append(ns.Ranges, NumRange{Start: uint32(u), Stop: uint32(u)})
	}
	return ns
}
