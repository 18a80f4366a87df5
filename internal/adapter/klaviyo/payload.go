package klaviyo

// Klaviyo V3 JSON:API request/response shapes. Only the fields this
// bridge touches are modeled.

type profileImportRequest struct {
	Data profileData `json:"data"`
}

type profileData struct {
	Type       string            `json:"type"`
	Attributes profileAttributes `json:"attributes"`
}

type profileAttributes struct {
	Email       string         `json:"email"`
	FirstName   *string        `json:"first_name,omitempty"`
	LastName    *string        `json:"last_name,omitempty"`
	PhoneNumber *string        `json:"phone_number,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
}

type profileImportResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type listMembersRequest struct {
	Data []listMember `json:"data"`
}

type listMember struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type eventRequest struct {
	Data eventData `json:"data"`
}

type eventData struct {
	Type       string          `json:"type"`
	Attributes eventAttributes `json:"attributes"`
}

type eventAttributes struct {
	Metric     metricRef      `json:"metric"`
	Profile    profileRef     `json:"profile"`
	Properties map[string]any `json:"properties,omitempty"`
	Time       string         `json:"time,omitempty"`
}

type metricRef struct {
	Data struct {
		Type       string `json:"type"`
		Attributes struct {
			Name string `json:"name"`
		} `json:"attributes"`
	} `json:"data"`
}

type profileRef struct {
	Data struct {
		Type       string `json:"type"`
		Attributes struct {
			Email string `json:"email"`
		} `json:"attributes"`
	} `json:"data"`
}

func newMetricRef(name string) metricRef {
	var m metricRef
	m.Data.Type = "metric"
	m.Data.Attributes.Name = name
	return m
}

func newProfileRef(email string) profileRef {
	var p profileRef
	p.Data.Type = "profile"
	p.Data.Attributes.Email = email
	return p
}
