package models

const (
	RoleStatusEnabled = 1
	MenuTypeDirectory = 0
	MenuVisible       = 1
)

type Role struct {
	RoleName string `json:"roleName"`
	RoleCode string `json:"roleCode"`
	Status   int    `json:"status"`
}

func (r Role) Enabled() bool {
	return r.Status == RoleStatusEnabled
}

type Menu struct {
	MenuName string `json:"menuName"`
	MenuType int    `json:"menuType"`
	Visible  int    `json:"visible"`
}

func (m Menu) IsDirectory() bool {
	return m.MenuType == MenuTypeDirectory
}

func (m Menu) IsVisible() bool {
	return m.Visible == MenuVisible
}
