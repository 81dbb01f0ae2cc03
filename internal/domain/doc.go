// Package domain defines the core business entities of the quiz application:
// users, multiple-choice questions, and per-user practice progress.
// Entities carry their own validation; persistence lives in internal/store.
package domain
