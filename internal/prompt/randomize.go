package prompt

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/dmorgan81/kittenbass/internal/log"
	"github.com/samber/do"
)

var (
	Styles   = []string{"photoreal", "cinematic still", "watercolor", "cel-shaded", "3D render", "plush toy macro", "pencil sketch", "vintage film", "vaporwave"}
	Kittens  = []string{"fluffy tabby", "tuxedo", "calico", "Siamese", "Scottish Fold", "Maine Coon kitten", "hairless sphynx", "ginger", "silver"}
	Boots    = []string{"cowboy boots", "rain boots", "combat boots", "glitter glam boots", "thigh-high boots", "Chelsea boots", "space boots", "patchwork leather boots", "striped rubber boots"}
	Basses   = []string{"Precision-style bass", "Jazz-style bass", "Rickenbacker-style bass", "acoustic bass", "short-scale bass", "5-string bass", "hollow-body bass", "headless bass"}
	Settings = []string{"tiny stage", "bedroom studio", "garage jam", "rooftop at dusk", "cozy living room", "forest clearing with fairy lights", "record-shop corner", "black sweep backdrop", "rehearsal space"}
	Lights   = []string{"warm key + soft rim", "colored gels", "high-key studio", "rim-lit fog", "moody spotlight", "golden hour"}
	Cameras  = []string{"low-angle hero", "eye-level medium", "fisheye close", "wide full-body", "Dutch tilt", "50mm portrait", "20mm wide", "85mm bokeh"}
	Actions  = []string{"mid-strum", "plucking", "slap bass", "tuning", "sound-check stance", "jumping mid-riff", "sitting on amp"}
)

const Negative = "no text, no letters, no numbers, no logos, no watermarks, no captions, no signage, no UI, " +
	"no dogs, no foxes, no rabbits, no adult big cats, no six-string electric guitar, no violin, no cello"

// Choice is one draw from every category list.
type Choice struct {
	Style   string
	Kitten  string
	Boots   string
	Bass    string
	Setting string
	Light   string
	Camera  string
	Action  string
}

func (c Choice) String() string {
	return fmt.Sprintf("A %s image of a %s kitten wearing %s, playing a %s bass guitar in a %s. "+
		"Lighting: %s. Camera: %s. Action: %s. High detail, pleasing composition.\nNegative prompt: %s",
		c.Style, c.Kitten, c.Boots, c.Bass, c.Setting, c.Light, c.Camera, c.Action, Negative)
}

type Randomizer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func New(rnd *rand.Rand) *Randomizer {
	return &Randomizer{rnd: rnd}
}

func NewRandomizer(_ *do.Injector) (*Randomizer, error) {
	return New(rand.New(rand.NewSource(time.Now().UTC().UnixNano()))), nil
}

func (r *Randomizer) Draw() Choice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Choice{
		Style:   r.pick(Styles),
		Kitten:  r.pick(Kittens),
		Boots:   r.pick(Boots),
		Bass:    r.pick(Basses),
		Setting: r.pick(Settings),
		Light:   r.pick(Lights),
		Camera:  r.pick(Cameras),
		Action:  r.pick(Actions),
	}
}

func (r *Randomizer) pick(list []string) string {
	return list[r.rnd.Intn(len(list))]
}

func (r *Randomizer) Randomize(ctx context.Context) string {
	choice := r.Draw()
	log.FromContextOrDiscard(ctx).WithGroup("randomizer").Info("built random prompt",
		"style", choice.Style, "kitten", choice.Kitten, "bass", choice.Bass)
	return choice.String()
}
