package queue

// 主题命名规范：gcp.<域>.<动作>，尽量稳定且向后兼容.
// 域：content(内容)、user(用户)

const (
	// 内容领域.
	TopicContentSubmitted = "gcp.content.submitted" // 作者提交发布，进入人工审核队列
	TopicContentPublished = "gcp.content.published" // 内容已发布（直接发布或审核通过）
	TopicContentModerated = "gcp.content.moderated" // 审核员完成审核（通过或拒绝）
	TopicContentRejected  = "gcp.content.rejected"  // 内容被拒绝（自动或人工）
	TopicContentViewed    = "gcp.content.viewed"    // 内容被浏览，流量大，默认关闭

	// 用户领域.
	TopicUserRegistered   = "gcp.user.registered"    // 新用户注册
	TopicUserRolesChanged = "gcp.user.roles_changed" // 用户角色被分配或移除
)

// 通配模式，用于 NATS 等支持通配订阅的实现.
const (
	PatternContentAll = "gcp.content.*"
	PatternUserAll    = "gcp.user.*"
)
