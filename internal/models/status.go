package models

// CheckoutStatus is the state of the checkout pipeline.
type CheckoutStatus string

const (
	CheckoutIdle       CheckoutStatus = "idle"
	CheckoutValidating CheckoutStatus = "validating"
	CheckoutSubmitting CheckoutStatus = "submitting"
	CheckoutSucceeded  CheckoutStatus = "succeeded"
	CheckoutFailed     CheckoutStatus = "failed"
)

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutSucceeded || s == CheckoutFailed
}

// CanSubmit reports whether a new submission may start from s. Failed is
// re-entrant so the user can retry without re-adding items.
func (s CheckoutStatus) CanSubmit() bool {
	return s == CheckoutIdle || s == CheckoutFailed || s == CheckoutSucceeded
}

func (s CheckoutStatus) String() string {
	return string(s)
}
