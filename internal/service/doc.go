// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Each service focuses on one domain area: project lifecycle, the task
// workflow state machine, and LLM-backed task generation. Services receive
// dependencies through constructor injection, apply transactional
// boundaries when operations span multiple repositories, and translate
// store-level errors into service-level ones the API layer maps to HTTP
// status codes.
package service
