package earthengine

import (
	"fmt"
	"strconv"
)

// node is one value in an Earth Engine expression graph.
type node map[string]any

// expression is the serialized graph accepted by value:compute, maps and thumbnails.
type expression struct {
	Result string          `json:"result"`
	Values map[string]node `json:"values"`
}

func newExpression(root node) expression {
	return expression{Result: "0", Values: map[string]node{"0": root}}
}

func constant(v any) node {
	return node{"constantValue": v}
}

func invoke(function string, args map[string]node) node {
	return node{"functionInvocationValue": map[string]any{
		"functionName": function,
		"arguments":    args,
	}}
}

func point(lon, lat float64) node {
	return invoke("GeometryConstructors.Point", map[string]node{
		"coordinates": constant([]float64{lon, lat}),
	})
}

func buffer(geometry node, meters float64) node {
	return invoke("Geometry.buffer", map[string]node{
		"geometry": geometry,
		"distance": constant(meters),
	})
}

func bounds(geometry node) node {
	return invoke("Geometry.bounds", map[string]node{"geometry": geometry})
}

// yearCollection loads the collection restricted to images intersecting geometry during year.
func yearCollection(id string, geometry node, year int) node {
	loaded := invoke("ImageCollection.load", map[string]node{"id": constant(id)})
	byBounds := invoke("Collection.filter", map[string]node{
		"collection": loaded,
		"filter": invoke("Filter.intersects", map[string]node{
			"leftField":  constant(".all"),
			"rightValue": geometry,
		}),
	})
	y := strconv.Itoa(year)
	return invoke("Collection.filter", map[string]node{
		"collection": byBounds,
		"filter": invoke("Filter.dateRangeContains", map[string]node{
			"leftValue": invoke("DateRange", map[string]node{
				"start": constant(y + "-01-01"),
				"end":   constant(y + "-12-31"),
			}),
			"rightField": constant("system:time_start"),
		}),
	})
}

// scaledComposite reduces the collection with reducer ("mean" or "median") and
// scales the selected band to physical units.
func scaledComposite(collection node, reducer, band string, factor float64) node {
	reduced := invoke("reduce."+reducer, map[string]node{"collection": collection})
	selected := invoke("Image.select", map[string]node{
		"input":         reduced,
		"bandSelectors": constant([]string{band}),
	})
	return invoke("Image.multiply", map[string]node{
		"image1": selected,
		"image2": invoke("Image.constant", map[string]node{"value": constant(factor)}),
	})
}

func regionMean(image, geometry node, band string, scale float64, maxPixels int64) node {
	dict := invoke("Image.reduceRegion", map[string]node{
		"image":     image,
		"reducer":   invoke("Reducer.mean", map[string]node{}),
		"geometry":  geometry,
		"scale":     constant(scale),
		"maxPixels": constant(maxPixels),
	})
	return invoke("Dictionary.get", map[string]node{
		"dictionary": dict,
		"key":        constant(band),
	})
}

func clipForThumbnail(image, region node, pixels int) node {
	return invoke("Image.clipToBoundsAndScale", map[string]node{
		"input":        image,
		"geometry":     region,
		"maxDimension": constant(pixels),
	})
}

func projectPath(project string) string {
	if project == "" {
		project = "earthengine-legacy"
	}
	return fmt.Sprintf("v1/projects/%s", project)
}
