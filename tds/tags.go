package tds

import "fmt"

// Tag identifies the meaning of a chunk.
type Tag uint16

const (
	TagVersion     Tag = 0x0002
	TagColorF      Tag = 0x0010
	TagColor24     Tag = 0x0011
	TagLinColor24  Tag = 0x0012 // gamma corrected
	TagLinColorF   Tag = 0x0013 // gamma corrected
	TagPercentInt  Tag = 0x0030
	TagPercentF    Tag = 0x0031
	TagMasterScale Tag = 0x0100

	TagBackgroundBitmap    Tag = 0x1100
	TagUseBackgroundBitmap Tag = 0x1101
	TagBackgroundColor     Tag = 0x1200
	TagUseBackgroundColor  Tag = 0x1201
	TagShadowBias          Tag = 0x1400
	TagShadowMapSize       Tag = 0x1420
	TagShadowFilter        Tag = 0x1450
	TagRayBias             Tag = 0x1460
	TagObjectConsts        Tag = 0x1500
	TagAmbientLight        Tag = 0x2100

	TagMain        Tag = 0x4D4D
	TagEditor      Tag = 0x3D3D
	TagMeshVersion Tag = 0x3D3E

	TagNamedObject       Tag = 0x4000
	TagObjectHidden      Tag = 0x4010
	TagObjectDontCast    Tag = 0x4012
	TagObjectMatte       Tag = 0x4013
	TagObjectDontReceive Tag = 0x4017

	TagTriMesh         Tag = 0x4100
	TagVertexList      Tag = 0x4110
	TagVertexFlags     Tag = 0x4111
	TagFaceList        Tag = 0x4120
	TagFaceMaterial    Tag = 0x4130
	TagMappingCoords   Tag = 0x4140
	TagSmoothingGroups Tag = 0x4150
	TagLocalAxes       Tag = 0x4160
	TagMeshColor       Tag = 0x4165
	TagMappingInfo     Tag = 0x4170

	TagLight           Tag = 0x4600
	TagSpotlight       Tag = 0x4610
	TagLightOff        Tag = 0x4620
	TagLightAttenuate  Tag = 0x4625
	TagSpotRaytrace    Tag = 0x4627
	TagSpotShadowed    Tag = 0x4630
	TagSpotRoll        Tag = 0x4656
	TagSpotRayBias     Tag = 0x4658
	TagLightInnerRange Tag = 0x4659
	TagLightOuterRange Tag = 0x465A
	TagLightMultiplier Tag = 0x465B

	TagCamera       Tag = 0x4700
	TagCameraRanges Tag = 0x4720

	TagMaterial         Tag = 0xAFFF
	TagMatName          Tag = 0xA000
	TagMatAmbient       Tag = 0xA010
	TagMatDiffuse       Tag = 0xA020
	TagMatSpecular      Tag = 0xA030
	TagMatShininess     Tag = 0xA040
	TagMatShinStrength  Tag = 0xA041
	TagMatTransparency  Tag = 0xA050
	TagMatTransFalloff  Tag = 0xA052
	TagMatReflectBlur   Tag = 0xA053
	TagMatTwoSided      Tag = 0xA081
	TagMatAdditive      Tag = 0xA083
	TagMatSelfIllum     Tag = 0xA084
	TagMatWire          Tag = 0xA085
	TagMatWireSize      Tag = 0xA087
	TagMatShading       Tag = 0xA100
	TagMatTexture       Tag = 0xA200
	TagMatSpecularMap   Tag = 0xA204
	TagMatOpacityMap    Tag = 0xA210
	TagMatReflectionMap Tag = 0xA220
	TagMatBumpMap       Tag = 0xA230
	TagMatTexture2      Tag = 0xA33A
	TagMatShininessMap  Tag = 0xA33C
	TagMatSelfIllumMap  Tag = 0xA33D
	TagMapFilename      Tag = 0xA300
	TagMapFlags         Tag = 0xA351
	TagMapBlur          Tag = 0xA353
	TagMapVScale        Tag = 0xA354
	TagMapUScale        Tag = 0xA356
	TagMapUOffset       Tag = 0xA358
	TagMapVOffset       Tag = 0xA35A
	TagMapRotation      Tag = 0xA35C

	TagKeyframer       Tag = 0xB000
	TagAmbientNode     Tag = 0xB001
	TagObjectNode      Tag = 0xB002
	TagCameraNode      Tag = 0xB003
	TagTargetNode      Tag = 0xB004
	TagOmniNode        Tag = 0xB005
	TagSpotTargetNode  Tag = 0xB006
	TagSpotNode        Tag = 0xB007
	TagKeyframeSegment Tag = 0xB008
	TagKeyframeCurrent Tag = 0xB009
	TagKeyframeHeader  Tag = 0xB00A
	TagNodeHeader      Tag = 0xB010
	TagInstanceName    Tag = 0xB011
	TagPivot           Tag = 0xB013
	TagBoundBox        Tag = 0xB014
	TagMorphSmooth     Tag = 0xB015
	TagPositionTrack   Tag = 0xB020
	TagRotationTrack   Tag = 0xB021
	TagScaleTrack      Tag = 0xB022
	TagFOVTrack        Tag = 0xB023
	TagRollTrack       Tag = 0xB024
	TagColorTrack      Tag = 0xB025
	TagHotspotTrack    Tag = 0xB027
	TagFalloffTrack    Tag = 0xB028
	TagHideTrack       Tag = 0xB029
	TagNodeID          Tag = 0xB030
)

var tagNames = map[Tag]string{
	TagVersion:             "VERSION",
	TagColorF:              "COLOR_F",
	TagColor24:             "COLOR_24",
	TagLinColor24:          "LIN_COLOR_24",
	TagLinColorF:           "LIN_COLOR_F",
	TagPercentInt:          "INT_PERCENTAGE",
	TagPercentF:            "FLOAT_PERCENTAGE",
	TagMasterScale:         "MASTER_SCALE",
	TagBackgroundBitmap:    "BIT_MAP",
	TagUseBackgroundBitmap: "USE_BIT_MAP",
	TagBackgroundColor:     "SOLID_BGND",
	TagUseBackgroundColor:  "USE_SOLID_BGND",
	TagShadowBias:          "SHADOW_BIAS",
	TagShadowMapSize:       "SHADOW_MAP_SIZE",
	TagShadowFilter:        "SHADOW_FILTER",
	TagRayBias:             "RAY_BIAS",
	TagObjectConsts:        "O_CONSTS",
	TagAmbientLight:        "AMBIENT_LIGHT",
	TagMain:                "M3DMAGIC",
	TagEditor:              "MDATA",
	TagMeshVersion:         "MESH_VERSION",
	TagNamedObject:         "NAMED_OBJECT",
	TagObjectHidden:        "OBJ_HIDDEN",
	TagObjectDontCast:      "OBJ_DOESNT_CAST",
	TagObjectMatte:         "OBJ_MATTE",
	TagObjectDontReceive:   "OBJ_DONT_RCVSHADOW",
	TagTriMesh:             "N_TRI_OBJECT",
	TagVertexList:          "POINT_ARRAY",
	TagVertexFlags:         "POINT_FLAG_ARRAY",
	TagFaceList:            "FACE_ARRAY",
	TagFaceMaterial:        "MSH_MAT_GROUP",
	TagMappingCoords:       "TEX_VERTS",
	TagSmoothingGroups:     "SMOOTH_GROUP",
	TagLocalAxes:           "MESH_MATRIX",
	TagMeshColor:           "MESH_COLOR",
	TagMappingInfo:         "MESH_TEXTURE_INFO",
	TagLight:               "N_DIRECT_LIGHT",
	TagSpotlight:           "DL_SPOTLIGHT",
	TagLightOff:            "DL_OFF",
	TagLightAttenuate:      "DL_ATTENUATE",
	TagSpotRaytrace:        "DL_RAYSHAD",
	TagSpotShadowed:        "DL_SHADOWED",
	TagSpotRoll:            "DL_SPOT_ROLL",
	TagSpotRayBias:         "DL_RAY_BIAS",
	TagLightInnerRange:     "DL_INNER_RANGE",
	TagLightOuterRange:     "DL_OUTER_RANGE",
	TagLightMultiplier:     "DL_MULTIPLIER",
	TagCamera:              "N_CAMERA",
	TagCameraRanges:        "CAM_RANGES",
	TagMaterial:            "MAT_ENTRY",
	TagMatName:             "MAT_NAME",
	TagMatAmbient:          "MAT_AMBIENT",
	TagMatDiffuse:          "MAT_DIFFUSE",
	TagMatSpecular:         "MAT_SPECULAR",
	TagMatShininess:        "MAT_SHININESS",
	TagMatShinStrength:     "MAT_SHIN2PCT",
	TagMatTransparency:     "MAT_TRANSPARENCY",
	TagMatTransFalloff:     "MAT_XPFALL",
	TagMatReflectBlur:      "MAT_REFBLUR",
	TagMatTwoSided:         "MAT_TWO_SIDE",
	TagMatAdditive:         "MAT_ADDITIVE",
	TagMatSelfIllum:        "MAT_SELF_ILPCT",
	TagMatWire:             "MAT_WIRE",
	TagMatWireSize:         "MAT_WIRESIZE",
	TagMatShading:          "MAT_SHADING",
	TagMatTexture:          "MAT_TEXMAP",
	TagMatSpecularMap:      "MAT_SPECMAP",
	TagMatOpacityMap:       "MAT_OPACMAP",
	TagMatReflectionMap:    "MAT_REFLMAP",
	TagMatBumpMap:          "MAT_BUMPMAP",
	TagMatTexture2:         "MAT_TEX2MAP",
	TagMatShininessMap:     "MAT_SHINMAP",
	TagMatSelfIllumMap:     "MAT_SELFIMAP",
	TagMapFilename:         "MAT_MAPNAME",
	TagMapFlags:            "MAT_MAP_TILING",
	TagMapBlur:             "MAT_MAP_TEXBLUR",
	TagMapVScale:           "MAT_MAP_VSCALE",
	TagMapUScale:           "MAT_MAP_USCALE",
	TagMapUOffset:          "MAT_MAP_UOFFSET",
	TagMapVOffset:          "MAT_MAP_VOFFSET",
	TagMapRotation:         "MAT_MAP_ANG",
	TagKeyframer:           "KFDATA",
	TagAmbientNode:         "AMBIENT_NODE_TAG",
	TagObjectNode:          "OBJECT_NODE_TAG",
	TagCameraNode:          "CAMERA_NODE_TAG",
	TagTargetNode:          "TARGET_NODE_TAG",
	TagOmniNode:            "LIGHT_NODE_TAG",
	TagSpotTargetNode:      "L_TARGET_NODE_TAG",
	TagSpotNode:            "SPOTLIGHT_NODE_TAG",
	TagKeyframeSegment:     "KFSEG",
	TagKeyframeCurrent:     "KFCURTIME",
	TagKeyframeHeader:      "KFHDR",
	TagNodeHeader:          "NODE_HDR",
	TagInstanceName:        "INSTANCE_NAME",
	TagPivot:               "PIVOT",
	TagBoundBox:            "BOUNDBOX",
	TagMorphSmooth:         "MORPH_SMOOTH",
	TagPositionTrack:       "POS_TRACK_TAG",
	TagRotationTrack:       "ROT_TRACK_TAG",
	TagScaleTrack:          "SCL_TRACK_TAG",
	TagFOVTrack:            "FOV_TRACK_TAG",
	TagRollTrack:           "ROLL_TRACK_TAG",
	TagColorTrack:          "COL_TRACK_TAG",
	TagHotspotTrack:        "HOT_TRACK_TAG",
	TagFalloffTrack:        "FALL_TRACK_TAG",
	TagHideTrack:           "HIDE_TRACK_TAG",
	TagNodeID:              "NODE_ID",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return fmt.Sprintf("%s(0x%04X)", name, uint16(t))
	}
	return fmt.Sprintf("0x%04X", uint16(t))
}
