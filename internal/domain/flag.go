package domain

import "bytes"

// Flag is a lenient boolean for the agent flag: only JSON true and the string
// "true" count as set. Any other value, including numbers, reads as false.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*f = Flag(bytes.Equal(b, []byte(`true`)) || bytes.Equal(b, []byte(`"true"`)))
	return nil
}
