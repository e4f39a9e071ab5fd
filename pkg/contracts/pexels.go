// Package contracts holds recorded catalog API responses. Client tests serve
// them from httptest servers so decoding is checked against the real shape,
// including the fields feedreel ignores.
package contracts

// PexelsVideoSearchContract is a GET /videos/search response.
const PexelsVideoSearchContract = `{
	"page": 1,
	"per_page": 2,
	"total_results": 8000,
	"url": "https://www.pexels.com/search/videos/nature/",
	"videos": [
		{
			"id": 1448735,
			"width": 4096,
			"height": 2160,
			"duration": 32,
			"url": "https://www.pexels.com/video/video-of-forest-1448735/",
			"image": "https://images.pexels.com/videos/1448735/free-video-1448735.jpg",
			"user": {"id": 574687, "name": "Ruvim Miksanskiy", "url": "https://www.pexels.com/@digitech"},
			"video_files": [
				{"id": 58649, "quality": "sd", "file_type": "video/mp4", "width": 640, "height": 338, "link": "https://player.vimeo.com/external/291648067.sd.mp4"},
				{"id": 58650, "quality": "hd", "file_type": "video/mp4", "width": 2048, "height": 1080, "link": "https://player.vimeo.com/external/291648067.hd.mp4"}
			],
			"video_pictures": [
				{"id": 133236, "picture": "https://static-videos.pexels.com/videos/1448735/pictures/preview-0.jpg", "nr": 0}
			]
		},
		{
			"id": 857251,
			"width": 1920,
			"height": 1080,
			"duration": 10,
			"url": "https://www.pexels.com/video/waterfall-857251/",
			"image": "https://images.pexels.com/videos/857251/free-video-857251.jpg",
			"user": {"id": 2659, "name": "Pixabay", "url": "https://www.pexels.com/@pixabay"},
			"video_files": [],
			"video_pictures": []
		}
	]
}`

// PexelsCuratedContract is a GET /v1/curated response.
const PexelsCuratedContract = `{
	"page": 1,
	"per_page": 2,
	"photos": [
		{
			"id": 2014422,
			"width": 3024,
			"height": 3024,
			"url": "https://www.pexels.com/photo/brown-rocks-during-golden-hour-2014422/",
			"photographer": "Joey Farina",
			"photographer_url": "https://www.pexels.com/@joey",
			"photographer_id": 680589,
			"avg_color": "#978E82",
			"src": {
				"original": "https://images.pexels.com/photos/2014422/pexels-photo-2014422.jpeg",
				"large2x": "https://images.pexels.com/photos/2014422/pexels-photo-2014422.jpeg?auto=compress&cs=tinysrgb&dpr=2&h=650&w=940",
				"large": "https://images.pexels.com/photos/2014422/pexels-photo-2014422.jpeg?auto=compress&cs=tinysrgb&h=650&w=940",
				"medium": "https://images.pexels.com/photos/2014422/pexels-photo-2014422.jpeg?auto=compress&cs=tinysrgb&h=350",
				"small": "https://images.pexels.com/photos/2014422/pexels-photo-2014422.jpeg?auto=compress&cs=tinysrgb&h=130",
				"portrait": "https://images.pexels.com/photos/2014422/pexels-photo-2014422.jpeg?auto=compress&cs=tinysrgb&fit=crop&h=1200&w=800",
				"landscape": "https://images.pexels.com/photos/2014422/pexels-photo-2014422.jpeg?auto=compress&cs=tinysrgb&fit=crop&h=627&w=1200",
				"tiny": "https://images.pexels.com/photos/2014422/pexels-photo-2014422.jpeg?auto=compress&cs=tinysrgb&dpr=1&fit=crop&h=200&w=280"
			},
			"liked": false,
			"alt": "Brown Rocks During Golden Hour"
		},
		{
			"id": 2880507,
			"width": 4000,
			"height": 6000,
			"url": "https://www.pexels.com/photo/woman-in-white-long-sleeved-top-and-skirt-standing-on-field-2880507/",
			"photographer": "Deden Dicky Ramdhani",
			"photographer_url": "https://www.pexels.com/@drdeden88",
			"photographer_id": 1583460,
			"avg_color": "#7E7F7B",
			"src": {
				"original": "https://images.pexels.com/photos/2880507/pexels-photo-2880507.jpeg",
				"large": "https://images.pexels.com/photos/2880507/pexels-photo-2880507.jpeg?auto=compress&cs=tinysrgb&h=650&w=940"
			},
			"liked": false,
			"alt": "Woman in White Long Sleeved Top and Skirt Standing on Field"
		}
	],
	"next_page": "https://api.pexels.com/v1/curated/?page=2&per_page=2"
}`

// PexelsErrorContract is the body Pexels returns with a 401.
const PexelsErrorContract = `{"error": "Authorization field missing"}`
