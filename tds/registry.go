package tds

// chunkType describes how a tag is decoded.
type chunkType struct {
	// payload creates an empty payload, nil for pure containers.
	payload func() Payload
	// children is set for chunks followed by sub-chunks.
	children bool
	// parents restricts the tag to these owners. Elsewhere the chunk is
	// treated as unknown.
	parents []Tag
}

func (t *chunkType) allowedIn(parent Tag) bool {
	if len(t.parents) == 0 {
		return true
	}
	for _, p := range t.parents {
		if p == parent {
			return true
		}
	}
	return false
}

func container() chunkType {
	return chunkType{children: true}
}

func leaf(f func() Payload) chunkType {
	return chunkType{payload: f}
}

func node(f func() Payload) chunkType {
	return chunkType{payload: f, children: true}
}

func flag() Payload    { return &Flag{} }
func text() Payload    { return &Text{} }
func float() Payload   { return &FloatValue{} }
func u8() Payload      { return &Uint8Value{} }
func u16() Payload     { return &Uint16Value{} }
func u32() Payload     { return &Uint32Value{} }
func colorF() Payload  { return &ColorF{} }
func color24() Payload { return &Color24{} }

func floats(n int) func() Payload {
	return func() Payload { return NewFloats(n) }
}

func track(components int) func() Payload {
	return func() Payload { return NewTrack(components) }
}

var nodeTags = []Tag{TagAmbientNode, TagObjectNode, TagCameraNode, TagTargetNode, TagOmniNode, TagSpotTargetNode, TagSpotNode}

var chunkTypes = map[Tag]chunkType{
	TagMain:        container(),
	TagVersion:     {payload: u32, parents: []Tag{TagMain}},
	TagEditor:      container(),
	TagMeshVersion: {payload: u32, parents: []Tag{TagEditor}},
	TagMasterScale: leaf(float),

	TagColorF:     leaf(colorF),
	TagColor24:    leaf(color24),
	TagLinColor24: leaf(color24),
	TagLinColorF:  leaf(colorF),
	TagPercentInt: leaf(u16),
	TagPercentF:   leaf(float),

	TagBackgroundBitmap:    leaf(text),
	TagUseBackgroundBitmap: leaf(flag),
	TagBackgroundColor:     container(),
	TagUseBackgroundColor:  leaf(flag),
	TagShadowBias:          leaf(float),
	TagShadowMapSize:       leaf(u16),
	TagShadowFilter:        leaf(float),
	TagRayBias:             leaf(float),
	TagObjectConsts:        leaf(floats(3)),
	TagAmbientLight:        container(),

	TagNamedObject:       node(text),
	TagObjectHidden:      {payload: flag, parents: []Tag{TagNamedObject}},
	TagObjectDontCast:    {payload: flag, parents: []Tag{TagNamedObject}},
	TagObjectMatte:       {payload: flag, parents: []Tag{TagNamedObject}},
	TagObjectDontReceive: {payload: flag, parents: []Tag{TagNamedObject}},

	TagTriMesh:         container(),
	TagVertexList:      leaf(func() Payload { return &VertexList{} }),
	TagVertexFlags:     leaf(func() Payload { return &VertexFlags{} }),
	TagFaceList:        node(func() Payload { return &FaceList{} }),
	TagFaceMaterial:    {payload: func() Payload { return &FaceMaterial{} }, parents: []Tag{TagFaceList}},
	TagMappingCoords:   leaf(func() Payload { return &MappingCoords{} }),
	TagSmoothingGroups: leaf(func() Payload { return &SmoothingGroups{} }),
	TagLocalAxes:       leaf(func() Payload { return &LocalAxes{} }),
	TagMeshColor:       leaf(u8),
	TagMappingInfo:     leaf(func() Payload { return &MappingInfo{} }),

	TagLight:           node(func() Payload { return &DirectLight{} }),
	TagSpotlight:       node(func() Payload { return &Spotlight{} }),
	TagLightOff:        leaf(flag),
	TagLightAttenuate:  leaf(flag),
	TagSpotRaytrace:    leaf(flag),
	TagSpotShadowed:    leaf(flag),
	TagSpotRoll:        leaf(float),
	TagSpotRayBias:     leaf(float),
	TagLightInnerRange: leaf(float),
	TagLightOuterRange: leaf(float),
	TagLightMultiplier: leaf(float),

	TagCamera:       node(func() Payload { return &CameraSetup{} }),
	TagCameraRanges: {payload: floats(2), parents: []Tag{TagCamera}},

	TagMaterial:         container(),
	TagMatName:          leaf(text),
	TagMatAmbient:       container(),
	TagMatDiffuse:       container(),
	TagMatSpecular:      container(),
	TagMatShininess:     container(),
	TagMatShinStrength:  container(),
	TagMatTransparency:  container(),
	TagMatTransFalloff:  container(),
	TagMatReflectBlur:   container(),
	TagMatSelfIllum:     container(),
	TagMatTwoSided:      leaf(flag),
	TagMatAdditive:      leaf(flag),
	TagMatWire:          leaf(flag),
	TagMatWireSize:      leaf(float),
	TagMatShading:       leaf(u16),
	TagMatTexture:       container(),
	TagMatTexture2:      container(),
	TagMatOpacityMap:    container(),
	TagMatBumpMap:       container(),
	TagMatSpecularMap:   container(),
	TagMatShininessMap:  container(),
	TagMatSelfIllumMap:  container(),
	TagMatReflectionMap: container(),
	TagMapFilename:      leaf(text),
	TagMapFlags:         leaf(u16),
	TagMapBlur:          leaf(float),
	TagMapVScale:        leaf(float),
	TagMapUScale:        leaf(float),
	TagMapUOffset:       leaf(float),
	TagMapVOffset:       leaf(float),
	TagMapRotation:      leaf(float),

	TagKeyframer:       container(),
	TagKeyframeHeader:  leaf(func() Payload { return &KeyframeHeader{} }),
	TagKeyframeSegment: leaf(func() Payload { return &Segment{} }),
	TagKeyframeCurrent: leaf(u32),
	TagAmbientNode:     container(),
	TagObjectNode:      container(),
	TagCameraNode:      container(),
	TagTargetNode:      container(),
	TagOmniNode:        container(),
	TagSpotTargetNode:  container(),
	TagSpotNode:        container(),
	TagNodeHeader:      {payload: func() Payload { return &NodeHeader{} }, parents: nodeTags},
	TagInstanceName:    {payload: text, parents: nodeTags},
	TagPivot:           {payload: floats(3), parents: nodeTags},
	TagBoundBox:        {payload: floats(6), parents: nodeTags},
	TagMorphSmooth:     {payload: float, parents: nodeTags},
	TagNodeID:          {payload: u16, parents: nodeTags},
	TagPositionTrack:   {payload: track(3), parents: nodeTags},
	TagRotationTrack:   {payload: track(4), parents: nodeTags},
	TagScaleTrack:      {payload: track(3), parents: nodeTags},
	TagFOVTrack:        {payload: track(1), parents: nodeTags},
	TagRollTrack:       {payload: track(1), parents: nodeTags},
	TagColorTrack:      {payload: track(3), parents: nodeTags},
	TagHotspotTrack:    {payload: track(1), parents: nodeTags},
	TagFalloffTrack:    {payload: track(1), parents: nodeTags},
	TagHideTrack:       {payload: track(0), parents: nodeTags},
}

var unknownType = chunkType{payload: func() Payload { return &Unknown{} }}

// lookupType returns how to decode tag inside parent. Tags that are not
// known, or not valid in that position, fall back to Unknown.
func lookupType(tag, parent Tag) *chunkType {
	if t, ok := chunkTypes[tag]; ok && t.allowedIn(parent) {
		return &t
	}
	return &unknownType
}

// NewPayload returns an empty payload for tag inside parent, or nil if the
// chunk only holds sub-chunks.
func NewPayload(tag, parent Tag) Payload {
	t := lookupType(tag, parent)
	if t.payload == nil {
		return nil
	}
	return t.payload()
}
