package response

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/doorwatch/doorwatch/internal/analyzer"
)

const sampleRate = analyzer.SampleRate

// minClipGap is the minimum time between the starts of two clip
// playbacks; it stops a run of knocks from overlapping several bark
// clips into noise.
const minClipGap = 2 * time.Second

// ClipPlayer plays short canned audio clips out the default output
// device in response to confirmed detections. Clips are selected
// round-robin rather than at random: a fixed rotation makes bench
// testing reproducible, and listeners don't notice the difference
// over a handful of plays the way they would notice an uncannily
// repetitive random pick.
type ClipPlayer struct {
	mu      sync.Mutex
	clips   [][]int16
	next    int
	lastAt  time.Time
	stream  *portaudio.Stream
	playing bool
}

// NewClipPlayer loads every *.raw file in dir (mono 16-bit PCM at the
// analyzer's sample rate, no header) into memory and initializes
// PortAudio. An output stream is opened for each playback by PlayNext.
func NewClipPlayer(dir string) (*ClipPlayer, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("response: read clip dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".raw" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("response: no .raw clips found in %s", dir)
	}

	clips := make([][]int16, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("response: read clip %s: %w", name, err)
		}
		clips = append(clips, bytesToInt16(data))
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("response: portaudio init: %w", err)
	}

	return &ClipPlayer{clips: clips}, nil
}

func bytesToInt16(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(uint16(b[2*i]) | uint16(b[2*i+1])<<8)
	}
	return out
}

// PlayNext plays the next clip in rotation if minClipGap has elapsed
// since the last playback started; otherwise it's a no-op so rapid
// detections don't pile up overlapping streams.
func (c *ClipPlayer) PlayNext() error {
	c.mu.Lock()
	if time.Since(c.lastAt) < minClipGap || c.playing {
		c.mu.Unlock()
		return nil
	}
	clip := c.clips[c.next]
	c.next = (c.next + 1) % len(c.clips)
	c.lastAt = time.Now()
	c.playing = true
	c.mu.Unlock()

	pos := 0
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), 0, func(out []int16) {
		n := copy(out, clip[pos:])
		pos += n
		for i := n; i < len(out); i++ {
			out[i] = 0
		}
	})
	if err != nil {
		c.mu.Lock()
		c.playing = false
		c.mu.Unlock()
		return fmt.Errorf("response: open playback stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		c.mu.Lock()
		c.playing = false
		c.mu.Unlock()
		return fmt.Errorf("response: start playback stream: %w", err)
	}

	go func() {
		clipDuration := time.Duration(len(clip)) * time.Second / time.Duration(sampleRate)
		time.Sleep(clipDuration)
		stream.Stop()
		stream.Close()

		c.mu.Lock()
		c.playing = false
		c.mu.Unlock()
	}()

	return nil
}

// Close releases PortAudio resources held by the player.
func (c *ClipPlayer) Close() error {
	return portaudio.Terminate()
}
