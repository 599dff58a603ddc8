package trace

// Parser is any parsing function: it consumes a prefix of input and returns
// the remaining input and the value it produced, or an error.
type Parser[I, O any] func(input I) (rest I, out O, err error)

// point identifies an instrumentation point.
type point struct {
	tag     string
	name    string
	context string
}

// label is what gets attached to a failing parser's error.
func (pt point) label() string {
	if pt.context != "" {
		return pt.context
	}
	return pt.name
}

// Instrument wraps p so that each call records an enter event and an outcome
// event in the calling goroutine's store for tag. The outcome of p is
// returned unchanged. context may be empty.
//
// Events go to the registry returned by Current, which stays alive until
// the calling goroutine runs Release. Use InstrumentWith to record into a
// registry whose lifetime the caller owns.
func Instrument[I, O any](tag, name, context string, p Parser[I, O]) Parser[I, O] {
	return wrap(Current, loadDefaults().cfg, point{tag, name, context}, false, p)
}

// InstrumentWith is Instrument bound to an explicit registry.
func InstrumentWith[I, O any](r *Registry, tag, name, context string, p Parser[I, O]) Parser[I, O] {
	return wrap(func() *Registry { return r }, r.cfg, point{tag, name, context}, false, p)
}

// Silence wraps p like Instrument, but neither the wrapper nor anything
// instrumented underneath it records events. Depth accounting, and with it
// the ceiling, still applies to the whole subtree.
func Silence[I, O any](tag, name, context string, p Parser[I, O]) Parser[I, O] {
	return wrap(Current, loadDefaults().cfg, point{tag, name, context}, true, p)
}

// SilenceWith is Silence bound to an explicit registry.
func SilenceWith[I, O any](r *Registry, tag, name, context string, p Parser[I, O]) Parser[I, O] {
	return wrap(func() *Registry { return r }, r.cfg, point{tag, name, context}, true, p)
}

// Trace instruments p under DefaultTag without context.
func Trace[I, O any](name string, p Parser[I, O]) Parser[I, O] {
	return Instrument(DefaultTag, name, "", p)
}

// TraceCtx instruments p under DefaultTag with context.
func TraceCtx[I, O any](name, context string, p Parser[I, O]) Parser[I, O] {
	return Instrument(DefaultTag, name, context, p)
}

// TraceTag instruments p under tag without context.
func TraceTag[I, O any](tag, name string, p Parser[I, O]) Parser[I, O] {
	return Instrument(tag, name, "", p)
}

func wrap[I, O any](resolve func() *Registry, cfg Config, pt point, silent bool, p Parser[I, O]) Parser[I, O] {
	if !Compiled {
		if cfg.Context {
			return withContext(pt, cfg.SummaryWidth, p)
		}
		return p
	}

	return func(input I) (I, O, error) {
		r := resolve()
		if !r.cfg.Enabled {
			return callWithContext(r.cfg, pt, p, input)
		}

		s := r.Store(pt.tag)
		if !s.active {
			return callWithContext(r.cfg, pt, p, input)
		}

		f := r.enter(s, pt, silent && r.cfg.Silencing, input)
		defer f.unwind()

		rest, out, err := p(input)
		r.exit(&f, input, rest, out, err)

		if err != nil && r.cfg.Context {
			err = attachContext(err, summarize(input, r.cfg.SummaryWidth), pt.label())
		}
		return rest, out, err
	}
}

func callWithContext[I, O any](cfg Config, pt point, p Parser[I, O], input I) (I, O, error) {
	rest, out, err := p(input)
	if err != nil && cfg.Context {
		err = attachContext(err, summarize(input, cfg.SummaryWidth), pt.label())
	}
	return rest, out, err
}

func withContext[I, O any](pt point, width int, p Parser[I, O]) Parser[I, O] {
	return func(input I) (I, O, error) {
		rest, out, err := p(input)
		if err != nil {
			err = attachContext(err, summarize(input, width), pt.label())
		}
		return rest, out, err
	}
}

// frame is the bookkeeping of one open instrumented call.
type frame struct {
	s        *Store
	pt       point
	gen      uint64
	depth    int  // store depth before the call
	silenced bool // this call raised the silence counter
}

// enter enforces the ceiling, opens a frame and records the enter event
// unless a silencing wrapper is open.
func (r *Registry) enter(s *Store, pt point, silence bool, input any) frame {
	if r.cfg.MaxDepth && s.maxDepth > 0 && s.depth+1 > s.maxDepth {
		err := &DepthLimitError{Tag: pt.tag, Name: pt.name, Limit: s.maxDepth}
		r.log.Error("trace depth ceiling reached", "tag", pt.tag, "parser", pt.name, "limit", s.maxDepth)
		panic(err)
	}

	f := frame{s: s, pt: pt, gen: s.generation, depth: s.depth, silenced: silence}
	s.depth++
	if silence {
		s.silence++
	}
	if s.silence == 0 {
		r.record(s, Event{
			Depth:   f.depth,
			Phase:   PhaseEnter,
			Name:    pt.name,
			Context: pt.context,
			Input:   summarize(input, r.cfg.SummaryWidth),
		})
	}
	return f
}

// exit records the outcome event of f. Nothing is recorded while silenced
// or when the store was reset during the call.
func (r *Registry) exit(f *frame, input, rest, out any, err error) {
	s := f.s
	if s.generation != f.gen || s.silence != 0 {
		return
	}
	ev := Event{
		Depth:   f.depth,
		Name:    f.pt.name,
		Context: f.pt.context,
	}
	ev.Phase, ev.Detail = classify(err)
	if ev.Phase == PhaseSuccess {
		ev.Input = summarize(rest, r.cfg.SummaryWidth)
		ev.Detail = describe(out, r.cfg.SummaryWidth)
	} else {
		ev.Input = summarize(input, r.cfg.SummaryWidth)
		ev.Detail = bound(ev.Detail, r.cfg.SummaryWidth)
	}
	r.record(s, ev)
}

// unwind restores the depth counters to their value before the call. It
// runs deferred, so it also runs while a depth ceiling panic propagates.
func (f *frame) unwind() {
	s := f.s
	if s.generation != f.gen {
		return
	}
	s.depth = f.depth
	if f.silenced {
		s.silence--
	}
}
