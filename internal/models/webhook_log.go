package models

// WebhookLog is the audit record for one automation webhook call. Every
// call is logged with its request and response bodies so that agent
// conversations can be traced back.
type WebhookLog struct {
	DefaultModel
	Endpoint     string
	Action       string
	SenderPhone  string
	RequestBody  string
	ResponseBody string
	StatusCode   int
	Error        string
}
