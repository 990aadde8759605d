/*
Package publish exports task results to external systems as JSON events.

Each execution attempt becomes one Event on the wire, carrying the task
name, execution ID, outcome, retry count, and duration. The Redis
publisher emits events on a pub/sub channel:

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	pub, err := publish.NewRedis(publish.RedisConfig{
		Redis:   client,
		Channel: "task-events",
	})
	if err != nil {
		log.Fatal(err)
	}
	defer pub.Close()

# Wiring Into a Pool

Handler adapts a publisher into a pool event handler. Register it on both
event managers to export successes and failures alike:

	h := publish.Handler(pub, &logger)
	p.OnTaskComplete().Add(h)
	p.OnTaskError().Add(h)

Publish failures are logged and swallowed by the handler, so an
unreachable broker slows nothing down and never interrupts a drain.
Every publish is bounded by the configured PublishTimeout.

# Ownership

The publisher borrows the Redis client from its config and never closes
it. Closing the publisher only stops further publishes; subsequent calls
fail with ErrClosed.

# Metrics

NewRedisWithMetrics wraps the publisher with Prometheus counters for
published events and publish failures, labeled by channel.
*/
package publish
