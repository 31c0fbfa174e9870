package merchant

// cardTypeRef references an existing card type by identifier.
type cardTypeRef struct {
	UUID string `json:"uuid"`
}

// clientCreateRequest is the wire shape for client onboarding.
type clientCreateRequest struct {
	Name               string        `json:"name"`
	Address            string        `json:"address"`
	PAN                string        `json:"pan"`
	IsActive           bool          `json:"isActive"`
	Threshold          *int64        `json:"threshold"`
	BankUUID           string        `json:"bankUuid"`
	RedirectURL        string        `json:"redirectURL"`
	SupportedCardTypes []cardTypeRef `json:"supportedCardTypes"`
}

// clientUpdateRequest is a separate wire shape from clientCreateRequest on
// purpose; the two share validation, not a type hierarchy.
type clientUpdateRequest struct {
	UUID               string        `json:"uuid"`
	Name               string        `json:"name"`
	Address            string        `json:"address"`
	PAN                string        `json:"pan"`
	IsActive           bool          `json:"isActive"`
	Threshold          *int64        `json:"threshold"`
	BankUUID           string        `json:"bankUuid"`
	RedirectURL        string        `json:"redirectURL"`
	SupportedCardTypes []cardTypeRef `json:"supportedCardTypes"`
}

// posCreateRequest is the wire shape for POS creation.
type posCreateRequest struct {
	IsActive   bool   `json:"isActive"`
	ClientUUID string `json:"clientUuid"`
}

type cardTypeResponse struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

type clientResponse struct {
	UUID               string             `json:"uuid"`
	Name               string             `json:"name"`
	Address            string             `json:"address"`
	IsActive           bool               `json:"isActive"`
	Threshold          *int64             `json:"threshold,omitempty"`
	RedirectURL        string             `json:"redirectURL"`
	SupportedCardTypes []cardTypeResponse `json:"supportedCardTypes"`
}

type posResponse struct {
	UUID       string `json:"uuid"`
	IsActive   bool   `json:"isActive"`
	ClientUUID string `json:"clientUuid"`
}

func refUUIDs(refs []cardTypeRef) []string {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.UUID)
	}
	return ids
}

func toClientResponse(c Client) clientResponse {
	types := make([]cardTypeResponse, 0, len(c.SupportedCardTypes))
	for _, ct := range c.SupportedCardTypes {
		types = append(types, cardTypeResponse{UUID: ct.UUID, Name: ct.Name})
	}
	return clientResponse{
		UUID:               c.UUID,
		Name:               c.Name,
		Address:            c.Address,
		IsActive:           c.Active,
		Threshold:          c.Threshold,
		RedirectURL:        c.RedirectURL,
		SupportedCardTypes: types,
	}
}

func toPosResponse(p POS) posResponse {
	return posResponse{UUID: p.UUID, IsActive: p.Active, ClientUUID: p.ClientUUID}
}
