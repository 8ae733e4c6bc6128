package types

// Account identifies a holder of the underlying asset or the liquidity
// token. The hosting process decides what an account string maps to; the
// ledger treats it as an opaque identifier.
type Account string

func (a Account) String() string {
	return string(a)
}

// IsEmpty reports whether the account is unset.
func (a Account) IsEmpty() bool {
	return a == ""
}
