package configs

import "github.com/spf13/viper"

// ModerationConfig 自动审核阈值，分数范围 0-100.
type ModerationConfig struct {
	SpamSignals int `mapstructure:"spam_signals" rule:"min=1,max=3"`   // 判定垃圾内容所需的信号数
	FlagAbove   int `mapstructure:"flag_above"   rule:"min=0,max=100"` // 分数高于此值标记为 flagged
	ReviewAt    int `mapstructure:"review_at"    rule:"min=0,max=100"` // 分数达到此值进入人工审核
	RejectAt    int `mapstructure:"reject_at"    rule:"gtfield=ReviewAt,max=100"`
	// StaleAfterHours 待审核超过该时长的内容会在日报中单独列出.
	StaleAfterHours int `mapstructure:"stale_after_hours" rule:"min=1"`
}

func (c *ModerationConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("moderation.spam_signals", 2)
	v.SetDefault("moderation.flag_above", 30)
	v.SetDefault("moderation.review_at", 30)
	v.SetDefault("moderation.reject_at", 70)
	v.SetDefault("moderation.stale_after_hours", 48)
}
