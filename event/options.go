package event

// SubscribeOption adjusts a listener or collector at registration.
type SubscribeOption func(*subscribeOptions)

type subscribeOptions struct {
	check Check
	once  bool
}

// WithCheck makes the subscriber receive only dispatches check accepts.
func WithCheck(check Check) SubscribeOption {
	return func(o *subscribeOptions) { o.check = check }
}

// WithOnce removes the subscriber after its first matching dispatch.
func WithOnce() SubscribeOption {
	return func(o *subscribeOptions) { o.once = true }
}

// ApplyOptions resolves opts into a check and a once flag.
func ApplyOptions(opts ...SubscribeOption) (check Check, once bool) {
	o := subscribeOptions{check: Always}
	for _, opt := range opts {
		opt(&o)
	}
	if o.check == nil {
		o.check = Always
	}
	return o.check, o.once
}
