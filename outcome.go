package pollfetch

// Outcome is the discriminated result of an OnInit or OnPoll hook.
//
// A hook has three choices:
//
//   - return [Done] with a ready-made [Reply]: the reply becomes the final
//     result of the invocation, verbatim
//   - return [Resolve] with any value: the value is boxed into a synthetic
//     200 reply with a JSON body
//   - return a nil *Outcome: not finished; OnInit proceeds to polling,
//     OnPoll waits one interval and tries again
//
// The zero Outcome (neither reply nor value) behaves like Resolve(nil).
type Outcome struct {
	reply *Reply
	value any
}

// Done marks the invocation complete with reply as the final result.
func Done(reply *Reply) *Outcome {
	return &Outcome{reply: reply}
}

// Resolve marks the invocation complete with an arbitrary value, which will
// be serialized into the body of a synthetic 200 reply.
func Resolve(value any) *Outcome {
	return &Outcome{value: value}
}

// finalReply converts the outcome into the reply returned to the caller.
func (o *Outcome) finalReply() (*Reply, error) {
	if o.reply != nil {
		return o.reply, nil
	}
	return syntheticReply(o.value)
}
