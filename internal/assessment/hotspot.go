package assessment

// Zone is a clickable polygonal region of a hotspot image. Points holds
// flattened x,y vertex coordinates.
type Zone struct {
	ID     string `json:"id"`
	Shape  string `json:"shape"`
	Points []int  `json:"points"`
}

// HotspotTarget is one sub-question of a hotspot step: a prompt and the
// zone the learner is expected to click.
type HotspotTarget struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
	Zone   string `json:"zone"`
}

// HotspotPayload is the content of a hotspot/image-click step.
type HotspotPayload struct {
	Image   string          `json:"image"`
	Zones   []Zone          `json:"zones"`
	Targets []HotspotTarget `json:"targets"`
}

func (p *HotspotPayload) Format() Format { return FormatHotspot }

// Evaluate awards one point per target whose captured zone id equals the
// designated correct zone. Targets are answered sequentially client-side,
// but grading is independent per target.
func (p *HotspotPayload) Evaluate(answers AnswerSet, _ *Presentation) Tally {
	t := Tally{Total: len(p.Targets)}
	for _, target := range p.Targets {
		clicked, ok := answerString(answers[target.ID])
		if ok && clicked == target.Zone {
			t.Correct++
		}
	}
	return t
}

// HotspotTargetView is a target with its correct zone withheld.
type HotspotTargetView struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
}

// HotspotStepView is the learner-facing rendition: the image and its
// clickable zones, plus the prompts.
type HotspotStepView struct {
	Image   string              `json:"image"`
	Zones   []Zone              `json:"zones"`
	Targets []HotspotTargetView `json:"targets"`
}

func (p *HotspotPayload) View(_ *Presentation) any {
	views := make([]HotspotTargetView, 0, len(p.Targets))
	for _, target := range p.Targets {
		views = append(views, HotspotTargetView{ID: target.ID, Prompt: target.Prompt})
	}
	return HotspotStepView{Image: p.Image, Zones: p.Zones, Targets: views}
}
