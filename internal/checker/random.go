package checker

import "github.com/samber/lo"

const (
	FlagPrefix   = "FLAG_"
	flagIDLength = 10
	flagLength   = 13
)

// NewFlagID returns the order name a flag is stored under.
func NewFlagID() string {
	return lo.RandomString(flagIDLength, lo.LowerCaseLettersCharset)
}

func NewFlag() string {
	return FlagPrefix + lo.RandomString(flagLength, lo.LowerCaseLettersCharset)
}
