package configs

import (
	"time"

	"github.com/spf13/viper"
)

// RecommendConfig 推荐、热门与趋势的查询和缓存配置.
type RecommendConfig struct {
	DefaultLimit  int           `mapstructure:"default_limit"  rule:"min=1,max=100"`
	MaxLimit      int           `mapstructure:"max_limit"      rule:"gtefield=DefaultLimit"`
	CandidatePool int           `mapstructure:"candidate_pool" rule:"min=10"` // 每次从数据库拉取的候选上限
	CacheEnabled  bool          `mapstructure:"cache_enabled"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	WarmCron      string        `mapstructure:"warm_cron"` // 热度缓存预热的 cron 表达式
}

func (c *RecommendConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("recommend.default_limit", 10)
	v.SetDefault("recommend.max_limit", 50)
	v.SetDefault("recommend.candidate_pool", 500)
	v.SetDefault("recommend.cache_enabled", true)
	v.SetDefault("recommend.cache_ttl", "10m")
	v.SetDefault("recommend.warm_cron", "0 * * * *")
}
