package inmemory

const (
	committed = "committed"
	discarded = "discarded"
	success   = "success"
)
