// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Default animation cadence.
const (
	EmojiInterval   = 400 * time.Millisecond
	MessageInterval = 2500 * time.Millisecond
)

// LoadingEmojis rotate in the busy indicator.
var LoadingEmojis = []string{"🔍", "📚", "📖", "🎓", "📝", "🔎"}

// Frame is what the busy indicator shows at one instant.
type Frame struct {
	Emoji   string
	Message string
}

// LoadingAnimationController drives the busy indicator with two tickers:
// one rotates the emoji, the other the message. One controller belongs to
// one page session. Start and Stop may be called any number of times.
type LoadingAnimationController struct {
	mu       sync.Mutex
	emojis   []string
	messages []string
	emoji    int
	message  int
	running  bool
	stop     chan struct{}
	done     chan struct{}

	// out receives a redrawn line on every frame change; nil disables output.
	out io.Writer

	emojiEvery   time.Duration
	messageEvery time.Duration
}

// NewLoadingAnimationController returns a stopped controller rotating
// messages. Frames are drawn to out when it is non-nil.
func NewLoadingAnimationController(messages []string, out io.Writer) *LoadingAnimationController {
	if len(messages) == 0 {
		messages = []string{""}
	}
	return &LoadingAnimationController{
		emojis:       LoadingEmojis,
		messages:     messages,
		out:          out,
		emojiEvery:   EmojiInterval,
		messageEvery: MessageInterval,
	}
}

// Start begins the animation from the first frame. It does nothing when the
// animation is already running.
func (c *LoadingAnimationController) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.emoji, c.message = 0, 0
	c.running = true
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	c.drawLocked()
	go c.run(c.stop, c.done)
}

// Stop cancels both tickers and waits for them to finish. It does nothing
// when the animation is not running.
func (c *LoadingAnimationController) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	stop, done := c.stop, c.done
	c.mu.Unlock()

	close(stop)
	<-done

	c.mu.Lock()
	if c.out != nil {
		fmt.Fprint(c.out, "\r\033[K")
	}
	c.mu.Unlock()
}

// Running reports whether the tickers are active.
func (c *LoadingAnimationController) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Frame returns the current emoji and message.
func (c *LoadingAnimationController) Frame() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameLocked()
}

func (c *LoadingAnimationController) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	emojiTicker := time.NewTicker(c.emojiEvery)
	defer emojiTicker.Stop()
	messageTicker := time.NewTicker(c.messageEvery)
	defer messageTicker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-emojiTicker.C:
			c.mu.Lock()
			c.emoji = (c.emoji + 1) % len(c.emojis)
			c.drawLocked()
			c.mu.Unlock()
		case <-messageTicker.C:
			c.mu.Lock()
			c.message = (c.message + 1) % len(c.messages)
			c.drawLocked()
			c.mu.Unlock()
		}
	}
}

func (c *LoadingAnimationController) frameLocked() Frame {
	return Frame{Emoji: c.emojis[c.emoji], Message: c.messages[c.message]}
}

func (c *LoadingAnimationController) drawLocked() {
	if c.out == nil {
		return
	}
	f := c.frameLocked()
	fmt.Fprintf(c.out, "\r\033[K%s %s", f.Emoji, f.Message)
}
