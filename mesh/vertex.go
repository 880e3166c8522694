package mesh

// Vertex is one corner of the triangle with every attribute a layout may
// select.
type Vertex struct {
	Position [3]float32
	Color    [3]float32
	TexCoord [2]float32
}

// Triangle is the fixed triangle drawn every frame: red bottom left, green
// bottom right and blue top centre. Texture t runs top to bottom.
var Triangle = [3]Vertex{
	{Position: [3]float32{-0.5, -0.5, 0.0}, Color: [3]float32{1.0, 0.0, 0.0}, TexCoord: [2]float32{0.0, 1.0}},
	{Position: [3]float32{0.5, -0.5, 0.0}, Color: [3]float32{0.0, 1.0, 0.0}, TexCoord: [2]float32{1.0, 1.0}},
	{Position: [3]float32{0.0, 0.5, 0.0}, Color: [3]float32{0.0, 0.0, 1.0}, TexCoord: [2]float32{0.5, 0.0}},
}

// Pack flattens vertices into the interleaved float stream described by
// layout. Attributes at locations other than position, colour and texcoord
// are left zero.
func Pack(vertices []Vertex, layout Layout) []float32 {
	n := layout.Components()
	out := make([]float32, len(vertices)*n)
	for i, v := range vertices {
		rec := out[i*n : (i+1)*n]
		for _, a := range layout.Attributes {
			var src []float32
			switch a.Index {
			case PositionAttrib:
				src = v.Position[:]
			case ColorAttrib:
				src = v.Color[:]
			case TexCoordAttrib:
				src = v.TexCoord[:]
			default:
				continue
			}
			copy(rec[a.Offset/floatSize:a.Offset/floatSize+int(a.Components)], src)
		}
	}
	return out
}
