package domain

// StoreInfo is the storefront's business metadata, persisted independently
// of pages and themes.
type StoreInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Instagram   string `json:"instagram"`
	Twitter     string `json:"twitter"`
	Facebook    string `json:"facebook"`
}

// StoreInfoPatch is a partial StoreInfo update; nil fields are left unchanged.
type StoreInfoPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	Instagram   *string `json:"instagram,omitempty"`
	Twitter     *string `json:"twitter,omitempty"`
	Facebook    *string `json:"facebook,omitempty"`
}

// Apply merges the patch into info.
func (p StoreInfoPatch) Apply(info *StoreInfo) {
	if p.Name != nil {
		info.Name = *p.Name
	}
	if p.Description != nil {
		info.Description = *p.Description
	}
	if p.Email != nil {
		info.Email = *p.Email
	}
	if p.Phone != nil {
		info.Phone = *p.Phone
	}
	if p.Address != nil {
		info.Address = *p.Address
	}
	if p.Instagram != nil {
		info.Instagram = *p.Instagram
	}
	if p.Twitter != nil {
		info.Twitter = *p.Twitter
	}
	if p.Facebook != nil {
		info.Facebook = *p.Facebook
	}
}
