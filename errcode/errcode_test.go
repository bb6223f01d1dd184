package errcode

import "testing"

func TestOfExtractsCodeFromBareCode(t *testing.T) {
	if got := Of(OutOfRangeInput); got != OutOfRangeInput {
		t.Errorf("Of(OutOfRangeInput) = %v, want itself", got)
	}
}

func TestOfExtractsCodeFromE(t *testing.T) {
	err := &E{C: Unauthorized, Op: "test.Op", Msg: "no permission"}
	if got := Of(err); got != Unauthorized {
		t.Errorf("Of(&E{C: Unauthorized}) = %v, want Unauthorized", got)
	}
}

func TestOfDefaultsToErrorForUnknownErrorTypes(t *testing.T) {
	if got := Of(plainErr{}); got != Error {
		t.Errorf("Of(plainErr{}) = %v, want Error", got)
	}
}

func TestOfReturnsOKForNil(t *testing.T) {
	if got := Of(nil); got != OK {
		t.Errorf("Of(nil) = %v, want OK", got)
	}
}

func TestEErrorIncludesMessageWhenPresent(t *testing.T) {
	err := &E{C: Incomplete, Msg: "need more tokens"}
	if got := err.Error(); got != "incomplete_command: need more tokens" {
		t.Errorf("Error() = %q, want %q", got, "incomplete_command: need more tokens")
	}
}

func TestEErrorFallsBackToBareCodeWhenMsgEmpty(t *testing.T) {
	err := &E{C: Busy}
	if got := err.Error(); got != "busy" {
		t.Errorf("Error() = %q, want %q", got, "busy")
	}
}

func TestEUnwrapReturnsWrappedErr(t *testing.T) {
	cause := plainErr{}
	err := &E{C: Error, Err: cause}
	if err.Unwrap() != cause {
		t.Error("Unwrap() should return the wrapped cause")
	}
}

func TestMapDriverErr(t *testing.T) {
	if got := MapDriverErr(nil); got != OK {
		t.Errorf("MapDriverErr(nil) = %v, want OK", got)
	}
	if got := MapDriverErr(plainErr{}); got != TransientDeviceError {
		t.Errorf("MapDriverErr(err) = %v, want TransientDeviceError", got)
	}
}

type plainErr struct{}

func (plainErr) Error() string { return "plain" }
