// Package piste is a small sprite/stage runtime for [Ebitengine], built for
// side-scrolling games where everything lives on one ground plane and draw
// order follows depth.
//
// # Quick start
//
// A [Stage] owns the live sprites, a following camera and the per-frame
// update/render loop. A [Host] adapts a stage to [ebiten.Game]:
//
//	host := piste.NewHost(640, 480)
//	stage := piste.NewStage(host.Surface(), host.Keys(), host)
//	stage.SetBackground(piste.RGB(1, 1, 1))
//	stage.AddSprite(player)
//	stage.Start()
//	if err := piste.Run(host, piste.RunConfig{Title: "Game", Width: 640, Height: 480}); err != nil {
//		log.Fatal(err)
//	}
//
// For full control, drive the stage through any [FrameScheduler] and any
// [Surface] yourself. Both are small interfaces; the tests use recording fakes.
//
// # Sprites
//
// Every visual element embeds [Entity] and implements [Sprite]. Entities
// have a ground position (x, y), an elevation z that casts a shadow, a
// hitbox in local space and an optional list of children drawn relative to
// the parent. [FramedSprite] draws named sub-rectangles of one image and plays
// timed [Animation] sequences.
//
// Optional per-sprite hooks are expressed as interfaces: implement
// [FrameUpdater] to run before each render and [KeyHandler] to receive key
// presses.
//
// # Draw order
//
// Sprites are kept ordered by y as they are added, then fully sorted by
// (layer, z, y) right before each render. Chrome sprites are drawn after the
// world in insertion order and are not affected by the camera.
//
// # Sheets
//
// Frame tables and animations can be described in YAML ([LoadSheetSpec]) or
// TexturePacker JSON ([LoadAtlas]). A [SheetWatcher] reports edits to sheet
// files so they can be reloaded while the game runs.
//
// # Scripted runs
//
// [LoadTestScript] parses a JSON list of key presses, waits and screenshots
// which the [Host] plays back frame by frame.
//
// [Ebitengine]: https://ebitengine.org
package piste
