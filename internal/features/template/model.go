package template

// Context is the runtime context assembled for one send. Created fresh per
// request; never persisted beyond the rendered email and the issued tokens.
type Context struct {
	TaskID        int
	ApproverID    string
	ApproverName  string
	ApproverEmail string
	SourceModule  string
	SourceID      string
	TemplateName  string
	ApprovalData  map[string]interface{}
	BaseURL       string
	CompanyName   string
}

type RedirectURLs struct {
	Success   string `json:"success"`
	Rejection string `json:"rejection"`
	Error     string `json:"error"`
}

// ActionSpec describes one allowed action of a template. Actions flagged
// RequiresRemarks route through an intermediate form instead of applying
// on the first click. Rejects determines the outcome: a rejected task
// status and the rejection redirect instead of the success one. The
// action name is only an identifier.
type ActionSpec struct {
	Name            string `json:"name"`
	Label           string `json:"label"`
	Style           string `json:"style"` // primary | danger | neutral
	RequiresRemarks bool   `json:"requires_remarks"`
	Rejects         bool   `json:"rejects"`
}

// Row is one mapped approval-data line shown in the email body.
type Row struct {
	Label string
	Value string
}

// DataMapper shapes raw approval data into display rows. Mappers live in
// the in-process registry, selected by template name at startup; they are
// code, never persisted configuration.
type DataMapper func(data map[string]interface{}) []Row

// Config is the static per-template configuration.
type Config struct {
	Name         string
	Subject      string // {{placeholder}} syntax, resolved against approval data and context
	DataMapper   DataMapper
	Actions      []ActionSpec
	RedirectURLs RedirectURLs
}

// Action returns the spec for name if the template allows it.
func (c Config) Action(name string) (ActionSpec, bool) {
	for _, a := range c.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return ActionSpec{}, false
}
