// Package domain contains the core business entities of the task tracker:
// users, tasks, and labels, together with the validation rules that hold
// regardless of how they are stored or delivered.
package domain
