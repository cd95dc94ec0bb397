package hal

type hostHAL struct {
	logger Logger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
}

// New returns a host HAL implementation.
func New(opts Options) HAL {
	return newHost(opts.withDefaults())
}

func newHost(opts Options) *hostHAL {
	return &hostHAL{
		logger: opts.Logger,
		fb:     newHostFramebuffer(opts.Width, opts.Height),
		kbd:    newHostKeyboard(),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd} }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }
