package configs

// AppName 应用名，用于日志、指标与追踪的服务名.
const AppName = "ghana-creative-platform"

// AppVersion 应用版本，构建时可通过 -ldflags "-X .../pkg/configs.AppVersion=x.y.z" 覆盖.
var AppVersion = "0.1.0"
