// Package wizard implements the chat-style guided link builder.
//
// A Session walks the user through one question per step:
//
//	target_url -> campaign -> source -> medium -> content -> term -> review -> done
//
// Each message fires an event on a pkg/statemachine Definition. Answers are
// checked by guards and written to the session's Draft by actions. Content and
// term can be skipped. "confirm" on the review step creates the campaign, or
// reuses one with the same name, and stores the link. "restart" clears the
// draft from any step.
//
// Rejected answers do not fail the request: the assistant replies with the
// problem and repeats the question. Sessions live in a Store; RedisStore
// keeps them with a TTL, MemoryStore is for single-process setups and tests.
package wizard
