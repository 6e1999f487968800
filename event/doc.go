// Package event is the dispatch and subscription core of the SDK.
//
// A Registry maps event kind names ("Message", "Ready", ...) to a shared
// Event. Each Event keeps an ordered list of Listeners, invoked once per
// matching dispatch, and Collectors, which batch a number of matching
// dispatches inside a time window before invoking their callback once with
// the arguments transposed by position.
//
// Dispatch never waits for handlers: every match is handed to a Scheduler
// and a Task is returned for each, so a slow or failing handler cannot stall
// the frame reader that called Dispatch.
//
//	reg := event.NewRegistry()
//	msg := reg.MustRegister("Message")
//	l, _ := event.NewListener(false, func(ctx context.Context, args ...any) error {
//		fmt.Println(args...)
//		return nil
//	}, nil)
//	_ = msg.Subscribe(l)
//	tasks := msg.Dispatch(event.NewScheduler(ctx), "hello")
//	_ = event.WaitAll(ctx, tasks...)
package event
