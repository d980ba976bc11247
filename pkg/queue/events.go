package queue

import "github.com/ThreeDotsLabs/watermill/message"

// publish 构造信封并发布到 topic.
func publish[T any](pub message.Publisher, topic string, payload T, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(topic, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(topic, msg)
}

// PublishContent 发布内容领域事件，topic 取 TopicContent* 之一（浏览事件除外）.
func PublishContent(pub message.Publisher, topic string, payload ContentPayload, opts ...func(*EventHeader)) error {
	return publish(pub, topic, payload, opts...)
}

// PublishContentViewed 发布 gcp.content.viewed.
func PublishContentViewed(pub message.Publisher, payload ContentViewedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicContentViewed, payload, opts...)
}

// PublishUserRegistered 发布 gcp.user.registered.
func PublishUserRegistered(pub message.Publisher, payload UserRegisteredPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicUserRegistered, payload, opts...)
}

// PublishUserRolesChanged 发布 gcp.user.roles_changed.
func PublishUserRolesChanged(pub message.Publisher, payload UserRolesChangedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicUserRolesChanged, payload, opts...)
}

// ParseContent 解析内容领域事件.
func ParseContent(msg *message.Message) (Message[ContentPayload], error) {
	return ParseWatermillMessage[ContentPayload](msg)
}

// ParseContentViewed 解析浏览事件.
func ParseContentViewed(msg *message.Message) (Message[ContentViewedPayload], error) {
	return ParseWatermillMessage[ContentViewedPayload](msg)
}

// ParseUserRegistered 解析注册事件.
func ParseUserRegistered(msg *message.Message) (Message[UserRegisteredPayload], error) {
	return ParseWatermillMessage[UserRegisteredPayload](msg)
}

// ParseUserRolesChanged 解析角色变化事件.
func ParseUserRolesChanged(msg *message.Message) (Message[UserRolesChangedPayload], error) {
	return ParseWatermillMessage[UserRolesChangedPayload](msg)
}
