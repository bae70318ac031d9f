// Package model provides the data types shared by the photopages packages.
//
// # Items
//
// An [Item] is one imported photograph: an opaque source reference (usually a
// file path) and a [Rotation]. Items have no identity beyond their position
// in the ordered list held by the store package.
//
//	item := model.Item{Source: "IMG_0001.jpg"}
//	item.Rotation = item.Rotation.Next() // 90
//
// # Page Geometry
//
// [PageGeometry] describes the physical page every item is laid out on, in
// millimetres. Named formats are available through [LookupFormat]:
//
//	geom, ok := model.LookupFormat("a4") // 210 x 297, 10 mm margin
//
// # Geometry and Units
//
//   - [Size] and [Rect] - floating point extents and rectangles
//   - [MillimetresToEMU] - DrawingML extents (36000 EMU per mm)
//   - [MillimetresToTwips] - WordprocessingML page sizes and margins
package model
