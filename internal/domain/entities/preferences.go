package entities

type Preferences struct {
	Name          string    `json:"name" bson:"name"`
	LinuxUsername string    `json:"linux_username" bson:"linux_username"`
	LinuxDistro   string    `json:"linux_distro" bson:"linux_distro"`
	TrustMode     TrustMode `json:"trust_mode" bson:"trust_mode"`
}
