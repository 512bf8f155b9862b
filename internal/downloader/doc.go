// Package downloader drives yt-dlp to fetch tracks as mp3 files and houses
// the retention janitor that expires served and aged downloads.
package downloader
