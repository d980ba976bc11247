package configs

import "github.com/spf13/viper"

// EventsConfig 控制领域事件发布的开关（全局与分主题）.
type EventsConfig struct {
	Enabled bool                `mapstructure:"enabled"` // 总开关
	Content ContentEventsConfig `mapstructure:"content"`
	User    UserEventsConfig    `mapstructure:"user"`
}

// ContentEventsConfig 内容生命周期事件开关.
type ContentEventsConfig struct {
	Submitted bool `mapstructure:"submitted"`
	Published bool `mapstructure:"published"`
	Moderated bool `mapstructure:"moderated"`
	Rejected  bool `mapstructure:"rejected"`
	Viewed    bool `mapstructure:"viewed"`
}

// UserEventsConfig 用户领域事件开关.
type UserEventsConfig struct {
	Registered   bool `mapstructure:"registered"`
	RolesChanged bool `mapstructure:"roles_changed"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("events.enabled", true)

	v.SetDefault("events.content.submitted", true)
	v.SetDefault("events.content.published", true)
	v.SetDefault("events.content.moderated", true)
	v.SetDefault("events.content.rejected", true)
	v.SetDefault("events.content.viewed", false) // 浏览事件量大，默认关闭

	v.SetDefault("events.user.registered", true)
	v.SetDefault("events.user.roles_changed", true)
}
