// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tasks runs a single cancellable background operation with a
// visible lifecycle, so a UI can show a busy indicator while a request is
// outstanding and report how it ended.
//
// # Key Types
//
//   - Task: A background operation with ID, status, result and cancel func
//   - TaskStatus: Queued, Running, Complete, Failed, Canceled
//   - Func: The work a task runs
//
// # Usage
//
//	task := tasks.NewTask("generate answer")
//	task.Run(ctx, func(ctx context.Context) (string, error) {
//	    return gen.Generate(ctx, req)
//	})
//
//	// Later, or from a tea.Cmd:
//	answer, err := task.Wait()
//
// Cancel an outstanding task:
//
//	task.Cancel()
package tasks
