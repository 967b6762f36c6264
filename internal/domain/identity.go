package domain

// Identity is an opaque caller principal. The platform never interprets it
// beyond equality checks; tokens, addresses and account ids all map onto it.
type Identity string

// Nobody is the zero identity, used when a record must not be attributable
// to anyone (anonymized donations).
const Nobody Identity = ""

// IsZero reports whether the identity is the zero identity.
func (id Identity) IsZero() bool {
	return id == Nobody
}
