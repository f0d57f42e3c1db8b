// Package flowrunner drives a payment flow machine end to end. The machine
// in pkg/paymentflow is pure and synchronous; this package supplies the
// caller the machine's contract assumes: a single goroutine that serializes
// event delivery, executes the emitted side effects through an EffectHandler,
// and feeds the results back in as events.
//
// The runner owns the cancellation deadline behind the cancelAfterDeadline
// effect: when the machine requests it, the runner arms a timer and delivers
// cancel once it fires, unless a terminal backend outcome arrived first.
//
// With a flowstore.Store attached, the runner snapshots the flow after every
// transition and deletes the snapshot on the terminal outcome, so in-flight
// flows survive a restart and can be rebuilt with ResumeRunner.
//
// # Usage
//
//	runner := flowrunner.NewRunner(handler,
//		flowrunner.WithLogger(logger),
//		flowrunner.WithStore(store),
//	)
//	runner.Start(ctx)
//
//	if err := runner.Dispatch(ctx, paymentflow.EventInitialize); err != nil {
//		return err
//	}
//
//	outcome := <-runner.Done()
//
// The handler's SubscribeToPaymentStatus implementation is expected to
// dispatch paymentAuthorized, paymentRejected, or error events as the status
// stream produces them; user actions (cancel, retry, cancelFlow) are
// dispatched by the UI layer the same way.
package flowrunner
