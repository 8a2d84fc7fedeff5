package audit

// WithResource sets the resource type and id.
func WithResource(resource, id string) EventOption {
	return func(e *Event) {
		e.Resource = resource
		e.ResourceID = id
	}
}

func WithMetadata(key string, value any) EventOption {
	return func(e *Event) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]any)
		}
		e.Metadata[key] = value
	}
}

// WithAccountID overrides the account taken from the context.
func WithAccountID(id string) EventOption {
	return func(e *Event) { e.AccountID = id }
}

// WithActor overrides the actor taken from the context.
func WithActor(actor string) EventOption {
	return func(e *Event) { e.Actor = actor }
}
