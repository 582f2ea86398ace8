package checker

import (
	"context"

	"go.uber.org/zap"
)

const msgFlagMismatch = "flag mismatch"

// CheckResult is the outcome of storing a flag and reading it back.
type CheckResult struct {
	Flag    string        `json:"flag"`
	SetFlag SetFlagResult `json:"setflag"`
	GetFlag GetFlagResult `json:"getflag"`
	Status  Status        `json:"status"`
	Message string        `json:"message"`
}

func (r CheckResult) OK() bool {
	return r.Status == Functional
}

// Check stores flag and then retrieves it with the issued token. The
// retrieval is skipped when storing did not succeed.
func (c *Checker) Check(ctx context.Context, flag string) CheckResult {
	result := CheckResult{
		Flag:    flag,
		GetFlag: GetFlagResult{Status: Down},
		Status:  Down,
	}

	result.SetFlag = c.SetFlag(ctx, flag)
	if !result.SetFlag.OK() {
		result.Status = result.SetFlag.Status
		result.Message = "setflag: " + result.SetFlag.Message
		return result
	}

	result.GetFlag = c.GetFlag(ctx, result.SetFlag.FlagID, result.SetFlag.Token)
	if !result.GetFlag.OK() {
		result.Status = result.GetFlag.Status
		result.Message = "getflag: " + result.GetFlag.Message
		return result
	}

	if result.GetFlag.Flag != flag {
		c.logger.Warn("retrieved flag differs from stored flag",
			zap.String("flag_id", result.SetFlag.FlagID),
			zap.String("expected", flag),
			zap.String("actual", result.GetFlag.Flag),
		)
		result.Status = Broken
		result.Message = msgFlagMismatch
		return result
	}

	result.Status = Functional
	return result
}

// Unchecked is the result for a target that could not be checked at all,
// for example because its address is invalid.
func Unchecked(flag string, err error) CheckResult {
	return CheckResult{
		Flag:    flag,
		SetFlag: SetFlagResult{Status: Down, Kind: KindUnknown, Message: err.Error()},
		GetFlag: GetFlagResult{Status: Down},
		Status:  Down,
		Message: "setflag: " + err.Error(),
	}
}
