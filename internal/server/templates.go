package server

// MemeTemplate describes one template clients can caption.
type MemeTemplate struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Fields []TemplateField `json:"fields"`
}

type TemplateField struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var memeTemplates = []MemeTemplate{
	{
		ID:   "drake",
		Name: "Drake Hotline Bling",
		Fields: []TemplateField{
			{ID: "top", Label: "Nah"},
			{ID: "bottom", Label: "Yeah"},
		},
	},
	{
		ID:   "distracted",
		Name: "Distracted Boyfriend",
		Fields: []TemplateField{
			{ID: "boyfriend", Label: "Boyfriend"},
			{ID: "girlfriend", Label: "Girlfriend"},
			{ID: "other", Label: "Other person"},
		},
	},
	{
		ID:   "two-buttons",
		Name: "Two Buttons",
		Fields: []TemplateField{
			{ID: "left", Label: "Left button"},
			{ID: "right", Label: "Right button"},
		},
	},
	{
		ID:   "change-my-mind",
		Name: "Change My Mind",
		Fields: []TemplateField{
			{ID: "sign", Label: "Sign"},
		},
	},
	{
		ID:   "expanding-brain",
		Name: "Expanding Brain",
		Fields: []TemplateField{
			{ID: "small", Label: "Small brain"},
			{ID: "normal", Label: "Normal brain"},
			{ID: "glowing", Label: "Glowing brain"},
			{ID: "galaxy", Label: "Galaxy brain"},
		},
	},
	{
		ID:   "this-is-fine",
		Name: "This Is Fine",
		Fields: []TemplateField{
			{ID: "caption", Label: "Caption"},
		},
	},
}

func templateByID(id string) (MemeTemplate, bool) {
	for _, tmpl := range memeTemplates {
		if tmpl.ID == id {
			return tmpl, true
		}
	}
	return MemeTemplate{}, false
}
