package requests

type StartRun struct {
	Suites []string `json:"suites" validate:"omitempty,dive,required"`
}
