package rabbitmq

// GrantedQueue — очередь сообщений о выданном премиуме.
const GrantedQueue = "entitlements.granted"

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetEntitlementQueues возвращает очереди обменника entitlements.
func GetEntitlementQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: GrantedQueue, RoutingKey: "granted"},
	}
}
