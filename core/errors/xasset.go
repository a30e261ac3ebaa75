package errors

import "fmt"

// Code is the numeric error taxonomy surfaced to callers, mirroring a
// contract's flat enumerated error codes (spec §7: "Errors are a flat
// enumerated taxonomy surfaced numerically"). The teacher's own
// core/errors/stake.go models module failures as plain package-level
// errors.New values with no numeric code; that convention is extended here,
// not replaced, because this spec explicitly requires numeric surfacing.
type Code uint32

const (
	CodeInsufficientCollateralization Code = iota + 1
	CodeCDPAlreadyExists
	CodeCDPNotFound
	CodeCDPNotInsolvent
	CodeCDPNotOpen
	CodeCDPNotOpenOrInsolvent
	CodeCDPNotOpenOrInsolventForRepay
	CodeInsufficientCollateral
	CodeInsufficientBalance
	CodeInsufficientAllowance
	CodeRepaymentExceedsDebt
	CodeOutstandingDebt
	CodeInvalidMerge
	CodeInvalidLiquidation
	CodeInvalidWithdrawal
	CodeStakeAlreadyExists
	CodeStakeDoesntExist
	CodeClaimRewardsFirst
	CodePartialUnstakeNotAllowed
	CodeInsufficientStake
	CodeInvalidLedgerSequence
	CodeOraclePriceFetchFailed
	CodeOracleDecimalsFetchFailed
	CodeXLMTransferFailed
	CodeXLMInvocationFailed
	CodeInsufficientXLMForInterest
	CodeInsufficientApprovedXLMForInterestRepayment
	CodePaymentExceedsInterestDue
	CodeValueNotPositive
	CodeCannotTransferToSelf
	CodeArithmeticError
	// CodeNotAuthorized and CodeAlreadyInitialized extend the taxonomy for
	// access/lifecycle failures (spec §4.7/§6) that the flat list in §7
	// otherwise leaves implicit in "auth-checked entry point".
	CodeNotAuthorized
	CodeAlreadyInitialized
	CodeNotInitialized
	CodeModulePaused
)

var codeNames = map[Code]string{
	CodeInsufficientCollateralization:                "InsufficientCollateralization",
	CodeCDPAlreadyExists:                             "CDPAlreadyExists",
	CodeCDPNotFound:                                  "CDPNotFound",
	CodeCDPNotInsolvent:                              "CDPNotInsolvent",
	CodeCDPNotOpen:                                   "CDPNotOpen",
	CodeCDPNotOpenOrInsolvent:                        "CDPNotOpenOrInsolvent",
	CodeCDPNotOpenOrInsolventForRepay:                "CDPNotOpenOrInsolventForRepay",
	CodeInsufficientCollateral:                       "InsufficientCollateral",
	CodeInsufficientBalance:                          "InsufficientBalance",
	CodeInsufficientAllowance:                        "InsufficientAllowance",
	CodeRepaymentExceedsDebt:                         "RepaymentExceedsDebt",
	CodeOutstandingDebt:                              "OutstandingDebt",
	CodeInvalidMerge:                                 "InvalidMerge",
	CodeInvalidLiquidation:                           "InvalidLiquidation",
	CodeInvalidWithdrawal:                            "InvalidWithdrawal",
	CodeStakeAlreadyExists:                           "StakeAlreadyExists",
	CodeStakeDoesntExist:                             "StakeDoesntExist",
	CodeClaimRewardsFirst:                            "ClaimRewardsFirst",
	CodePartialUnstakeNotAllowed:                     "PartialUnstakeNotAllowed",
	CodeInsufficientStake:                            "InsufficientStake",
	CodeInvalidLedgerSequence:                        "InvalidLedgerSequence",
	CodeOraclePriceFetchFailed:                       "OraclePriceFetchFailed",
	CodeOracleDecimalsFetchFailed:                    "OracleDecimalsFetchFailed",
	CodeXLMTransferFailed:                            "XLMTransferFailed",
	CodeXLMInvocationFailed:                          "XLMInvocationFailed",
	CodeInsufficientXLMForInterest:                   "InsufficientXLMForInterest",
	CodeInsufficientApprovedXLMForInterestRepayment:  "InsufficientApprovedXLMForInterestRepayment",
	CodePaymentExceedsInterestDue:                    "PaymentExceedsInterestDue",
	CodeValueNotPositive:                             "ValueNotPositive",
	CodeCannotTransferToSelf:                         "CannotTransferToSelf",
	CodeArithmeticError:                              "ArithmeticError",
	CodeNotAuthorized:                                "NotAuthorized",
	CodeAlreadyInitialized:                           "AlreadyInitialized",
	CodeNotInitialized:                               "NotInitialized",
	CodeModulePaused:                                 "ModulePaused",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", uint32(c))
}

// XAssetError pairs a numeric Code with a human-readable message, satisfying
// the standard error interface so callers can keep using errors.Is/errors.As
// while an outer RPC/CLI layer can still surface the numeric code.
type XAssetError struct {
	Code    Code
	Message string
}

func (e *XAssetError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return fmt.Sprintf("xasset: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("xasset: %s", e.Code)
}

// New constructs a XAssetError for the given code with an optional message.
func New(code Code, format string, args ...interface{}) *XAssetError {
	msg := ""
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	return &XAssetError{Code: code, Message: msg}
}

// Is allows errors.Is(err, xasseterrors.New(Code, "")) style comparisons by
// matching solely on Code.
func (e *XAssetError) Is(target error) bool {
	other, ok := target.(*XAssetError)
	if !ok {
		return false
	}
	return e.Code == other.Code
}

// CodeOf extracts the numeric Code from an error, returning false if the
// error is not a XAssetError.
func CodeOf(err error) (Code, bool) {
	xe, ok := err.(*XAssetError)
	if !ok || xe == nil {
		return 0, false
	}
	return xe.Code, true
}
