// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI pieces for the groqchat TUI.

Components render with the shared styles.Theme and hold no session state of
their own; the app package owns the session and passes values in.

# Components

Landing (landing.go) - Hero text, feature badges and the two entry buttons.
Header (header.go) - Page title bar with the active model and settings.
Slider (slider.go) - Stepped numeric control drawn with bubbles/progress.
Selector (selector.go) - Cycling choice list used for the model picker.
Spinner (spinner.go) - "Generating..." indicator with an elapsed timer.
ErrorDisplay (error_patterns.go) - Inline error box with a title and suggestions.
*/
package components
