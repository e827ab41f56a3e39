// Package service contains the application use cases for tasks and comments.
// It orchestrates domain objects and the store interfaces (internal/store)
// and owns the transactional boundaries.
//
// Key components:
//
// 1. Service Interfaces:
//   - TaskService and CommentService define the operations available to the API layer
//
// 2. Use Case Implementations:
//   - Apply transactional boundaries when an operation touches several rows or stores,
//     such as deleting a task with its comments or checking a task before commenting
//   - Record a tracing span per operation
//
// 3. Error Handling:
//   - Translate store errors to service sentinels (ErrTaskNotFound, ErrCommentNotFound)
//   - Pass domain validation errors through unchanged so the API can report them
//
// The service layer depends on domain entities and store interfaces, never on a
// specific database implementation.
package service
